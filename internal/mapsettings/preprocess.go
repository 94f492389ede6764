package mapsettings

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// PreProcess prepares the settings before they are handed to the map client.
//
// It injects the API key, drops blank and repeated map type ids keeping their
// order, and turns a site-relative icon path into an absolute URL under baseURL.
func (s *Settings) PreProcess(apiKey, baseURL string) error {
	s.GmapAPIKey = apiKey
	s.LegacyAPIKey = ""

	ids := make(TypeIDs, 0, len(s.Controls.MapTypeIDs))
	for _, id := range s.Controls.MapTypeIDs {
		if id = strings.TrimSpace(id); id != "" && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	s.Controls.MapTypeIDs = ids

	path := s.MarkerAndInfowindow.IconImagePath
	if path == "" || isExternal(path) || baseURL == "" {
		return nil
	}

	abs, err := url.JoinPath(baseURL, path)
	if err != nil {
		return fmt.Errorf("resolve icon path %q: %w", path, err)
	}
	s.MarkerAndInfowindow.IconImagePath = abs

	return nil
}

func isExternal(path string) bool {
	return strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//")
}
