package engine

import (
	"math"
	"testing"

	"rdboard/internal/geo"
)

func approx(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func obs(code string, year int, value float64) Observation {
	return Observation{EntityCode: code, Year: year, Sector: SectorTotal, Unit: UnitPercentGDP, Value: value, HasValue: true}
}

func TestDeriveEndToEnd(t *testing.T) {
	// Scenario:
	// ES 1.4, FR 2.2 for 2022; EU27_2020 reports the raw sum 59.4.
	// Spain must rank 2 of 2 (France first), the EU average is 2.2,
	// and Spain's delta vs the EU is about -36.4%.
	table := Table{
		obs("ES", 2022, 1.4),
		obs("FR", 2022, 2.2),
		obs("EU27_2020", 2022, 59.4),
	}
	eng := NewEngine(geo.Default)
	es, _ := geo.Default.ToCanonical("ES", "")

	m := eng.Derive(table, es, 2022, SectorTotal, UnitPercentGDP)

	if !m.HasData || m.Value != 1.4 {
		t.Fatalf("Spain value: got %v (has_data=%v), want 1.4", m.Value, m.HasData)
	}
	if m.Rank == nil || m.Rank.Position != 2 || m.Rank.Total != 2 {
		t.Fatalf("Spain rank: got %+v, want 2 of 2", m.Rank)
	}
	cmp, ok := m.VsRef["EU27_2020"]
	if !ok || cmp.Status != CompareOK {
		t.Fatalf("missing EU delta: %+v", m.VsRef)
	}
	if !approx(cmp.Percent, -36.36, 0.05) {
		t.Errorf("delta vs EU: got %.2f, want about -36.36", cmp.Percent)
	}

	// The EU aggregate itself: averaged, never ranked.
	eu, _ := geo.Default.ToCanonical("EU27_2020", "")
	me := eng.Derive(table, eu, 2022, SectorTotal, UnitPercentGDP)
	if !approx(me.Value, 2.2, 1e-9) {
		t.Errorf("EU adjusted value: got %v, want 2.2", me.Value)
	}
	if me.Rank != nil {
		t.Error("aggregates must not be ranked")
	}
}

func TestAggregateAdjustment(t *testing.T) {
	// A raw aggregate of 2700 over 27 members is exactly 100.
	table := Table{
		{EntityCode: "EU27_2020", Year: 2022, Sector: SectorTotal, Unit: UnitFTE, Value: 2700, HasValue: true},
	}
	eng := NewEngine(geo.Default)
	eu, _ := geo.Default.ToCanonical("EU27_2020", "")

	m := eng.Derive(table, eu, 2022, SectorTotal, UnitFTE)
	if m.Value != 100 {
		t.Errorf("adjusted value = %v, want exactly 100", m.Value)
	}
}

func TestAggregateRoundingByUnitKind(t *testing.T) {
	eng := NewEngine(geo.Default)
	eu, _ := geo.Default.ToCanonical("EU27_2020", "")

	// Count-like: 100/27 = 3.70..., rounds half-up to 4.
	counts := Table{{EntityCode: "EU27_2020", Year: 2022, Sector: SectorTotal, Unit: UnitNumber, Value: 100, HasValue: true}}
	if m := eng.Derive(counts, eu, 2022, SectorTotal, UnitNumber); m.Value != 4 {
		t.Errorf("count-like adjusted = %v, want 4", m.Value)
	}

	// Percentage-like: no rounding.
	pct := Table{{EntityCode: "EU27_2020", Year: 2022, Sector: SectorTotal, Unit: UnitPercentGDP, Value: 100, HasValue: true}}
	if m := eng.Derive(pct, eu, 2022, SectorTotal, UnitPercentGDP); !approx(m.Value, 100.0/27.0, 1e-9) {
		t.Errorf("percent-like adjusted = %v, want 100/27 unrounded", m.Value)
	}
}

func TestNoDataPropagation(t *testing.T) {
	table := Table{
		{EntityCode: "ES", Year: 2022, Sector: SectorTotal, Unit: UnitPercentGDP, HasValue: false},
		obs("FR", 2022, 2.2),
	}
	eng := NewEngine(geo.Default)
	es, _ := geo.Default.ToCanonical("ES", "")

	m := eng.Derive(table, es, 2022, SectorTotal, UnitPercentGDP)
	if m.HasData {
		t.Fatal("null value must propagate as no data, not zero")
	}
	if m.Rank != nil {
		t.Error("entity without data must not be ranked")
	}
	if m.YoY.Status != CompareUnavailable {
		t.Error("YoY must be unavailable without data")
	}
}

func TestYoY(t *testing.T) {
	eng := NewEngine(geo.Default)
	es, _ := geo.Default.ToCanonical("ES", "")

	// Normal case: 1.2 -> 1.4 is +16.67%.
	table := Table{obs("ES", 2022, 1.4), obs("ES", 2021, 1.2)}
	m := eng.Derive(table, es, 2022, SectorTotal, UnitPercentGDP)
	if m.YoY.Status != CompareOK || !approx(m.YoY.Percent, 16.667, 0.01) {
		t.Errorf("YoY: got %+v, want about +16.67", m.YoY)
	}

	// Prior year absent -> unavailable, never NaN.
	onlyCurrent := Table{obs("ES", 2022, 1.4)}
	m = eng.Derive(onlyCurrent, es, 2022, SectorTotal, UnitPercentGDP)
	if m.YoY.Status != CompareUnavailable {
		t.Errorf("YoY with missing prior: got %v", m.YoY.Status)
	}

	// Prior year zero -> unavailable, never divide-by-zero.
	zeroPrior := Table{obs("ES", 2022, 1.4), obs("ES", 2021, 0)}
	m = eng.Derive(zeroPrior, es, 2022, SectorTotal, UnitPercentGDP)
	if m.YoY.Status != CompareUnavailable {
		t.Errorf("YoY with zero prior: got %v", m.YoY.Status)
	}
	if math.IsNaN(m.YoY.Percent) || math.IsInf(m.YoY.Percent, 0) {
		t.Error("YoY leaked NaN/Inf")
	}
}

func TestYoYAliasCodes(t *testing.T) {
	// Current year keyed by ISO2, prior year by ISO3: the prior lookup
	// must still find it through the canonical table.
	table := Table{obs("ES", 2022, 1.4), obs("ESP", 2021, 1.0)}
	eng := NewEngine(geo.Default)
	es, _ := geo.Default.ToCanonical("ES", "")

	m := eng.Derive(table, es, 2022, SectorTotal, UnitPercentGDP)
	if m.YoY.Status != CompareOK || !approx(m.YoY.Percent, 40, 0.01) {
		t.Errorf("alias-code YoY: got %+v, want +40", m.YoY)
	}
}

func TestReferenceDeltaZero(t *testing.T) {
	// A reference value of exactly zero is incomparable, not a delta.
	table := Table{obs("FR", 2022, 2.2), obs("ES", 2022, 0), obs("EU27_2020", 2022, 59.4)}
	eng := NewEngine(geo.Default)
	fr, _ := geo.Default.ToCanonical("FR", "")

	m := eng.Derive(table, fr, 2022, SectorTotal, UnitPercentGDP)
	if cmp := m.VsRef["ES"]; cmp.Status != CompareIncomparable {
		t.Errorf("delta vs zero reference: got %v, want incomparable", cmp.Status)
	}
	// The EU reference is fine at the same time.
	if cmp := m.VsRef["EU27_2020"]; cmp.Status != CompareOK {
		t.Errorf("delta vs EU: got %v", cmp.Status)
	}
}

func TestRankBounds(t *testing.T) {
	table := Table{
		obs("ES", 2022, 1.4), obs("FR", 2022, 2.2), obs("DE", 2022, 3.1),
		obs("PT", 2022, 1.7), obs("EU27_2020", 2022, 59.4),
	}
	eng := NewEngine(geo.Default)

	ranked := eng.Ranking(table, 2022, SectorTotal, UnitPercentGDP)
	if len(ranked) != 4 {
		t.Fatalf("expected 4 peers (aggregate excluded), got %d", len(ranked))
	}
	seen := make(map[int]bool)
	for _, r := range ranked {
		if r.Position < 1 || r.Position > len(ranked) {
			t.Errorf("position %d out of bounds", r.Position)
		}
		if seen[r.Position] {
			t.Errorf("duplicate position %d", r.Position)
		}
		seen[r.Position] = true
	}
	if ranked[0].Entity.Code != "DE" || ranked[3].Entity.Code != "ES" {
		t.Errorf("unexpected order: %s first, %s last", ranked[0].Entity.Code, ranked[3].Entity.Code)
	}
}

func TestRankTieKeepsSourceOrder(t *testing.T) {
	// Stable sort: equal values rank in source order. Accepted default,
	// pinned so a change is visible.
	table := Table{obs("FR", 2022, 2.0), obs("DE", 2022, 2.0), obs("ES", 2022, 1.0)}
	eng := NewEngine(geo.Default)

	ranked := eng.Ranking(table, 2022, SectorTotal, UnitPercentGDP)
	if ranked[0].Entity.Code != "FR" || ranked[1].Entity.Code != "DE" {
		t.Errorf("tie order: got %s,%s want FR,DE", ranked[0].Entity.Code, ranked[1].Entity.Code)
	}
}

func TestDuplicateRowsFirstWins(t *testing.T) {
	// Duplicate (entity, year, sector, unit) rows: first in source order
	// is the documented tie-break.
	table := Table{obs("ES", 2022, 1.4), obs("ES", 2022, 9.9)}
	eng := NewEngine(geo.Default)
	es, _ := geo.Default.ToCanonical("ES", "")

	m := eng.Derive(table, es, 2022, SectorTotal, UnitPercentGDP)
	if m.Value != 1.4 {
		t.Errorf("duplicate rows: got %v, want first value 1.4", m.Value)
	}
	ranked := eng.Ranking(table, 2022, SectorTotal, UnitPercentGDP)
	if len(ranked) != 1 || ranked[0].Value != 1.4 {
		t.Errorf("ranking must dedupe on first occurrence: %+v", ranked)
	}
}

func TestNeighbors(t *testing.T) {
	table := Table{
		obs("DE", 2022, 3.0), obs("FR", 2022, 2.0), obs("ES", 2022, 1.0),
	}
	eng := NewEngine(geo.Default)

	// Middle rank: both neighbors, gaps relative to the target.
	fr, _ := geo.Default.ToCanonical("FR", "")
	m := eng.Derive(table, fr, 2022, SectorTotal, UnitPercentGDP)
	if m.Above == nil || m.Above.Entity.Code != "DE" {
		t.Fatal("expected DE above FR")
	}
	if !approx(m.Above.Gap.Percent, 50, 0.01) {
		t.Errorf("gap to DE: got %v, want +50", m.Above.Gap.Percent)
	}
	if m.Below == nil || m.Below.Entity.Code != "ES" {
		t.Fatal("expected ES below FR")
	}
	if !approx(m.Below.Gap.Percent, -50, 0.01) {
		t.Errorf("gap to ES: got %v, want -50", m.Below.Gap.Percent)
	}

	// Edge ranks: only the single available neighbor.
	de, _ := geo.Default.ToCanonical("DE", "")
	m = eng.Derive(table, de, 2022, SectorTotal, UnitPercentGDP)
	if m.Above != nil || m.Below == nil {
		t.Error("first rank must have only a lower neighbor")
	}
	es, _ := geo.Default.ToCanonical("ES", "")
	m = eng.Derive(table, es, 2022, SectorTotal, UnitPercentGDP)
	if m.Below != nil || m.Above == nil {
		t.Error("last rank must have only an upper neighbor")
	}
}

func TestUnknownCodesAreSkippedInRanking(t *testing.T) {
	table := Table{obs("ES", 2022, 1.4), obs("ZZ", 2022, 5.0)}
	eng := NewEngine(geo.Default)

	ranked := eng.Ranking(table, 2022, SectorTotal, UnitPercentGDP)
	if len(ranked) != 1 || ranked[0].Entity.Code != "ES" {
		t.Errorf("unmapped codes must drop out of the peer set: %+v", ranked)
	}
}
