package engine

import (
	"sort"

	"rdboard/internal/geo"
)

// Observation is one data point as it appears in its source file.
// EntityCode is the raw geo code (ISO2, ISO3 or Eurostat geo code) and is
// only canonicalized at query time. Immutable after load.
type Observation struct {
	EntityCode string
	Year       int
	Sector     SectorCode
	Unit       UnitCode
	Value      float64
	HasValue   bool
	Flag       string // Eurostat observation flag: p, e, b, d
}

// Table is an ordered sequence of observations from one source file.
// The engine never mutates it; filters return fresh slices.
type Table []Observation

// Filter selects the rows matching year, sector and unit in a single
// linear pass. When entities is non-nil, only rows resolving to one of the
// given canonical codes are kept. Duplicate rows for the same key are a
// data-quality condition, not an error: all of them are returned and
// callers pick the first in source order.
func (t Table) Filter(g *geo.Table, year int, sector SectorCode, unit UnitCode, entities map[string]bool) Table {
	var out Table
	for _, o := range t {
		if o.Year != year || o.Sector != sector || o.Unit != unit {
			continue
		}
		if entities != nil {
			e, err := g.ToCanonical(o.EntityCode, "")
			if err != nil || !entities[e.Code] {
				continue
			}
		}
		out = append(out, o)
	}
	return out
}

// ValueFor returns the first value in source order recorded for the entity
// in the given slice, accepting any of the entity's code spellings.
// The second return is false when the entity is absent or its value is
// missing — never coerced to zero.
func (t Table) ValueFor(g *geo.Table, e *geo.Entity, year int, sector SectorCode, unit UnitCode) (float64, bool) {
	o, ok := t.rowFor(g, e, year, sector, unit)
	if !ok || !o.HasValue {
		return 0, false
	}
	return o.Value, true
}

func (t Table) rowFor(g *geo.Table, e *geo.Entity, year int, sector SectorCode, unit UnitCode) (Observation, bool) {
	for _, o := range t {
		if o.Year != year || o.Sector != sector || o.Unit != unit {
			continue
		}
		if g.Matches(o.EntityCode, e) {
			return o, true
		}
	}
	return Observation{}, false
}

// Years lists the distinct years present, ascending. Drives the
// dashboard's year selector.
func (t Table) Years() []int {
	seen := make(map[int]bool)
	var out []int
	for _, o := range t {
		if !seen[o.Year] {
			seen[o.Year] = true
			out = append(out, o.Year)
		}
	}
	sort.Ints(out)
	return out
}

// SectorsPresent lists the distinct sectors present, in display order.
func (t Table) SectorsPresent() []SectorCode {
	seen := make(map[SectorCode]bool)
	for _, o := range t {
		seen[o.Sector] = true
	}
	var out []SectorCode
	for _, s := range Sectors {
		if seen[s] {
			out = append(out, s)
		}
	}
	return out
}

// UnitsPresent lists the distinct units present, in source order.
func (t Table) UnitsPresent() []UnitCode {
	seen := make(map[UnitCode]bool)
	var out []UnitCode
	for _, o := range t {
		if !seen[o.Unit] {
			seen[o.Unit] = true
			out = append(out, o.Unit)
		}
	}
	return out
}
