package geo

import "testing"

func TestCrossCodeConsistency(t *testing.T) {
	// Every ISO2 code must resolve to the same entity as its ISO3 code.
	for _, e := range Default.Entities() {
		if e.ISO2 == "" || e.ISO3 == "" {
			continue
		}
		by2, err := Default.ToCanonical(e.ISO2, "")
		if err != nil {
			t.Fatalf("ISO2 %s: %v", e.ISO2, err)
		}
		by3, err := Default.ToCanonical(e.ISO3, "")
		if err != nil {
			t.Fatalf("ISO3 %s: %v", e.ISO3, err)
		}
		if by2 != by3 {
			t.Errorf("%s/%s resolve to different entities: %s vs %s", e.ISO2, e.ISO3, by2.Code, by3.Code)
		}
	}
}

func TestHistoricalCodeVariants(t *testing.T) {
	// Greece is EL in Eurostat files, GR/GRC elsewhere.
	el, err := Default.ToCanonical("EL", "")
	if err != nil {
		t.Fatal(err)
	}
	gr, err := Default.ToCanonical("GR", "")
	if err != nil {
		t.Fatal(err)
	}
	if el != gr || el.Code != "EL" {
		t.Errorf("EL/GR mismatch: %v vs %v", el.Code, gr.Code)
	}

	// Same for UK vs GB.
	uk, _ := Default.ToCanonical("UK", "")
	gb, err := Default.ToCanonical("GB", "")
	if err != nil {
		t.Fatal(err)
	}
	if uk != gb || uk.Code != "UK" {
		t.Errorf("UK/GB mismatch")
	}
}

func TestUnknownCode(t *testing.T) {
	_, err := Default.ToCanonical("ZZ", "")
	if err == nil {
		t.Fatal("expected resolution failure for ZZ")
	}
	rerr, ok := err.(*ResolutionError)
	if !ok {
		t.Fatalf("expected *ResolutionError, got %T", err)
	}
	if rerr.Reason != UnknownCode {
		t.Errorf("expected UnknownCode, got %v", rerr.Reason)
	}
}

func TestNameHintFallback(t *testing.T) {
	// Code unknown, but the free-text hint identifies the entity.
	e, err := Default.ToCanonical("XX", "España")
	if err != nil {
		t.Fatalf("hint fallback failed: %v", err)
	}
	if e.Code != "ES" {
		t.Errorf("expected ES, got %s", e.Code)
	}
}

func TestAggregatesAreClosedSet(t *testing.T) {
	for _, code := range []string{"EU27_2020", "EU", "EU28", "EA19", "EA20"} {
		if !Default.IsAggregate(code) {
			t.Errorf("%s should be an aggregate", code)
		}
	}
	// No prefix heuristics: ES starts letters that could look bloc-ish
	// elsewhere, countries must never classify as aggregates.
	for _, code := range []string{"ES", "DE", "EL", "ES70"} {
		if Default.IsAggregate(code) {
			t.Errorf("%s should not be an aggregate", code)
		}
	}
}

func TestAggregateMemberCounts(t *testing.T) {
	eu, err := Default.ToCanonical("EU27_2020", "")
	if err != nil {
		t.Fatal(err)
	}
	if eu.MemberCount != 27 {
		t.Errorf("EU27_2020 member count = %d, want 27", eu.MemberCount)
	}
}

func TestHomeRegion(t *testing.T) {
	e, err := Default.ToCanonical("ES70", "")
	if err != nil {
		t.Fatal(err)
	}
	if e.Kind != Region {
		t.Errorf("ES70 kind = %v, want region", e.Kind)
	}
	byName, err := Default.ByName("Canarias")
	if err != nil || byName != e {
		t.Errorf("Canarias should resolve to ES70")
	}
}

func TestNewTableRejectsDuplicateCodes(t *testing.T) {
	_, err := NewTable([]Entity{
		{Code: "AA", Kind: Country, ISO2: "AA", Names: []string{"Alpha"}},
		{Code: "BB", Kind: Country, ISO2: "AA", Names: []string{"Beta"}},
	})
	if err == nil {
		t.Fatal("expected duplicate-code table to be rejected at build time")
	}
}

func TestAmbiguousNameLookup(t *testing.T) {
	tbl, err := NewTable([]Entity{
		{Code: "AA", Kind: Country, Names: []string{"Twin"}},
		{Code: "BB", Kind: Country, Names: []string{"Twin"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = tbl.ByName("twin")
	rerr, ok := err.(*ResolutionError)
	if !ok || rerr.Reason != AmbiguousMatch {
		t.Fatalf("expected AmbiguousMatch, got %v", err)
	}
}
