package geo

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// Feature is one member of a GeoJSON FeatureCollection. Geometry is kept
// as raw JSON: this program only reads the properties bag, the shapes pass
// through untouched to whatever draws them.
type Feature struct {
	Type       string          `json:"type"`
	ID         string          `json:"id,omitempty"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// prop returns a string-valued property, or "" when absent or non-string.
func (f Feature) prop(key string) string {
	v, ok := f.Properties[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// label picks something human-readable for error messages.
func (f Feature) label() string {
	for _, k := range nameKeys {
		if v := f.prop(k); v != "" {
			return v
		}
	}
	if f.ID != "" {
		return f.ID
	}
	return "<unnamed feature>"
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// ParseFeatures decodes a GeoJSON FeatureCollection.
func ParseFeatures(data []byte) ([]Feature, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "geo: decode feature collection")
	}
	if fc.Type != "FeatureCollection" {
		return nil, eris.Errorf("geo: expected FeatureCollection, got %q", fc.Type)
	}
	return fc.Features, nil
}

// LoadFeatures reads and decodes a GeoJSON file.
func LoadFeatures(path string) ([]Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: read %s", path)
	}
	return ParseFeatures(data)
}
