package mapsettings

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Validate checks the settings the way the settings form does before saving them.
// All problems are reported together.
func (s Settings) Validate() error {
	var errs []error

	if strings.TrimSpace(s.Dimensions.Width) == "" {
		errs = append(errs, errors.New("map_dimensions.width is required"))
	}
	if strings.TrimSpace(s.Dimensions.Height) == "" {
		errs = append(errs, errors.New("map_dimensions.height is required"))
	}

	switch s.Empty.Behaviour {
	case EmptyHide, EmptyMessage, EmptyMap:
	default:
		errs = append(errs, fmt.Errorf("map_empty.empty_behaviour %q is not one of 0, 1, 2", s.Empty.Behaviour))
	}

	if s.Center.Lat < -90 || s.Center.Lat > 90 {
		errs = append(errs, fmt.Errorf("map_center.lat must be between -90 and 90, got %g", s.Center.Lat))
	}
	if s.Center.Lon < -180 || s.Center.Lon > 180 {
		errs = append(errs, fmt.Errorf("map_center.lon must be between -180 and 180, got %g", s.Center.Lon))
	}

	errs = append(errs, s.ZoomAndPan.Zoom.validate()...)

	if !slices.Contains(GestureHandlings, s.ZoomAndPan.GestureHandling) {
		errs = append(errs, fmt.Errorf("map_zoom_and_pan.gestureHandling %q is not one of %s",
			s.ZoomAndPan.GestureHandling, strings.Join(GestureHandlings, ", ")))
	}

	if !slices.Contains(MapTypes, s.Controls.MapTypeID) {
		errs = append(errs, fmt.Errorf("map_controls.map_type_id %q is not one of %s",
			s.Controls.MapTypeID, strings.Join(MapTypes, ", ")))
	}
	for _, id := range s.Controls.MapTypeIDs {
		if !slices.Contains(MapTypes, id) {
			errs = append(errs, fmt.Errorf("map_controls.map_type_control_options_type_ids: unknown map type %q", id))
		}
	}

	if err := validateIconPath(s.MarkerAndInfowindow.IconImagePath); err != nil {
		errs = append(errs, err)
	}

	jsonFields := []struct{ name, value string }{
		{"map_additional_options", s.AdditionalOptions},
		{"map_oms.map_oms_options", s.OMS.Options},
		{"custom_style_map.custom_style_options", s.CustomStyle.Options},
		{"map_markercluster.markercluster_additional_options", s.MarkerCluster.AdditionalOptions},
	}
	for _, f := range jsonFields {
		if err := validateJSON(f.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.name, err))
		}
	}

	if s.CustomStyle.Control && strings.TrimSpace(s.CustomStyle.Name) == "" {
		errs = append(errs, errors.New("custom_style_map.custom_style_name is required when the custom style is enabled"))
	}

	return errors.Join(errs...)
}

func (z Zoom) validate() []error {
	var errs []error

	if z.Min < MinZoomLevel {
		errs = append(errs, fmt.Errorf("map_zoom_and_pan.zoom.min must be at least %d, got %d", MinZoomLevel, z.Min))
	}
	if z.Max > MaxZoomLevel {
		errs = append(errs, fmt.Errorf("map_zoom_and_pan.zoom.max must be at most %d, got %d", MaxZoomLevel, z.Max))
	}
	if z.Max < z.Min {
		errs = append(errs, errors.New("the max zoom level should be above the minimum zoom level"))
	}
	if z.Initial < z.Min || z.Initial > z.Max {
		errs = append(errs, errors.New("the start zoom level should be between the minimum and the maximum zoom levels"))
	}

	return errs
}

// validateIconPath accepts an empty value, an absolute http(s) URL or a site-relative path.
func validateIconPath(path string) error {
	if path == "" {
		return nil
	}

	if strings.ContainsAny(path, " \t\n") {
		return fmt.Errorf("map_marker_and_infowindow.icon_image_path %q is not a valid url", path)
	}

	u, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("map_marker_and_infowindow.icon_image_path: %w", err)
	}

	if isExternal(path) {
		if u.Host == "" {
			return fmt.Errorf("map_marker_and_infowindow.icon_image_path %q has no host", path)
		}
		return nil
	}

	if u.Scheme != "" {
		return fmt.Errorf("map_marker_and_infowindow.icon_image_path %q is not a valid url", path)
	}

	return nil
}

func validateJSON(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	var v any
	if err := json.Unmarshal([]byte(value), &v); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}

	return nil
}
