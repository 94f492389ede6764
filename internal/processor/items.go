package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/woozymasta/geofieldmap/internal/geo"
)

// Internal structure for JSON parsing of remote item feeds.
type feedRecord struct {
	Value       string `json:"value"`
	GeoType     string `json:"geo_type"`
	Description string `json:"description"`
}

// fetchItems downloads a JSON list of {value, geo_type, description} records.
// Records with a geo_type are typed field items, the others raw values.
func fetchItems(ctx context.Context, client *http.Client, url string) (geo.Items, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var records []feedRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, nil, fmt.Errorf("decode items feed: %w", err)
	}

	items := make(geo.Items, 0, len(records))
	descriptions := make([]string, 0, len(records))
	for _, r := range records {
		if r.GeoType != "" {
			items = append(items, geo.FieldItem{Value: r.Value, GeoType: r.GeoType})
		} else {
			items = append(items, geo.RawValue(r.Value))
		}
		descriptions = append(descriptions, r.Description)
	}

	return items, descriptions, nil
}
