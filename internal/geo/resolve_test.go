package geo

import "testing"

func TestResolveFeaturePriority(t *testing.T) {
	// ISO3 wins even when the name field disagrees: polygon datasets are
	// more reliable on codes than on name strings.
	f := Feature{Properties: map[string]any{
		"ISO3": "ESP",
		"NAME": "France",
	}}
	e, err := Default.ResolveFeature(f)
	if err != nil {
		t.Fatal(err)
	}
	if e.Code != "ES" {
		t.Errorf("expected ES from ISO3, got %s", e.Code)
	}
}

func TestResolveFeatureISO2Fallback(t *testing.T) {
	f := Feature{Properties: map[string]any{
		"ISO3":    "XXX", // unknown, must fall through
		"CNTR_ID": "EL",
	}}
	e, err := Default.ResolveFeature(f)
	if err != nil {
		t.Fatal(err)
	}
	if e.Code != "EL" {
		t.Errorf("expected EL, got %s", e.Code)
	}
}

func TestResolveFeatureNameFallback(t *testing.T) {
	// No usable codes; the Spanish name string must still resolve.
	f := Feature{Properties: map[string]any{
		"NAME": "Alemania",
	}}
	e, err := Default.ResolveFeature(f)
	if err != nil {
		t.Fatal(err)
	}
	if e.Code != "DE" {
		t.Errorf("expected DE, got %s", e.Code)
	}
}

func TestResolveFeatureUnknown(t *testing.T) {
	f := Feature{Properties: map[string]any{"NAME": "Atlantis"}}
	_, err := Default.ResolveFeature(f)
	rerr, ok := err.(*ResolutionError)
	if !ok || rerr.Reason != UnknownCode {
		t.Fatalf("expected UnknownCode failure, got %v", err)
	}
}

func TestMatches(t *testing.T) {
	es, _ := Default.ToCanonical("ES", "")
	for _, raw := range []string{"ES", "ESP", "es"} {
		if !Default.Matches(raw, es) {
			t.Errorf("Matches(%q, ES) = false", raw)
		}
	}
	if Default.Matches("FR", es) {
		t.Error("FR should not match ES")
	}
	if Default.Matches("ZZ", es) {
		t.Error("unknown code should not match")
	}
}

func TestParseFeatures(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "id": "ESP", "properties": {"ISO3": "ESP", "NAME": "Spain"},
			 "geometry": {"type": "Polygon", "coordinates": []}}
		]
	}`)
	feats, err := ParseFeatures(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(feats) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(feats))
	}
	if feats[0].prop("ISO3") != "ESP" {
		t.Error("property bag not preserved")
	}

	if _, err := ParseFeatures([]byte(`{"type": "Topology"}`)); err == nil {
		t.Error("expected error for non-FeatureCollection input")
	}
}
