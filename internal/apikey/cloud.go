package apikey

import (
	"context"
	"errors"
	"fmt"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// CloudKeys finds a key in Google Cloud API Keys by its display name,
// authenticating with Application Default Credentials.
type CloudKeys struct {
	DisplayName string
	// ProjectID overrides the project found in the credentials.
	ProjectID string
}

// LookupAPIKey implements Lookup.
func (c CloudKeys) LookupAPIKey(ctx context.Context) (string, error) {
	if c.DisplayName == "" {
		return "", errors.New("no key display name configured")
	}

	projectID := c.ProjectID
	if projectID == "" {
		creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
		if err != nil {
			return "", fmt.Errorf("finding default credentials: %w", err)
		}
		projectID = creds.ProjectID
	}
	if projectID == "" {
		return "", errors.New("no project id in default credentials")
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer func() { _ = client.Close() }()

	it := client.ListKeys(ctx, &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	})

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}
		if key.DisplayName != c.DisplayName {
			continue
		}

		// ListKeys redacts the secret
		log.Debug().Str("key", key.Name).Msg("Found API key resource, retrieving key string")

		resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{Name: key.Name})
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}
		if resp.KeyString == "" {
			return "", fmt.Errorf("key %q has an empty key string", c.DisplayName)
		}

		return resp.KeyString, nil
	}

	return "", fmt.Errorf("key with display name %q not found in project %s", c.DisplayName, projectID)
}
