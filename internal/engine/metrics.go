package engine

import (
	"math"
	"sort"

	"rdboard/internal/geo"
)

// CompareStatus tells whether a percent comparison could be computed.
type CompareStatus int

const (
	CompareOK CompareStatus = iota
	// CompareUnavailable: the other value is missing, so there is nothing
	// to compare against (e.g. no prior-year figure).
	CompareUnavailable
	// CompareIncomparable: the other value exists but is zero, so a percent
	// ratio is undefined. Distinct from Unavailable so the UI can still
	// show the raw value while omitting only the comparison.
	CompareIncomparable
)

func (s CompareStatus) String() string {
	switch s {
	case CompareOK:
		return "ok"
	case CompareUnavailable:
		return "unavailable"
	}
	return "incomparable"
}

// Comparison is a percent change against some other value.
type Comparison struct {
	Percent float64
	Status  CompareStatus
}

// Rank is a 1-based position among the non-aggregate peers of a slice.
type Rank struct {
	Position int
	Total    int
}

// Neighbor is the ranked entry immediately adjacent to the target, with
// the percent gap between its value and the target's.
type Neighbor struct {
	Entity *geo.Entity
	Value  float64
	Gap    Comparison
}

// Ranked is one entry of a peer ranking.
type Ranked struct {
	Entity   *geo.Entity
	Value    float64
	Position int
	Flag     string
}

// Metric is the full derived result for one (entity, year, sector, unit)
// query. Ephemeral: recomputed per query, discarded by the caller.
type Metric struct {
	Entity  *geo.Entity
	Year    int
	Sector  SectorCode
	Unit    UnitCode
	HasData bool
	Raw     float64 // value as reported by the source
	Value   float64 // Raw, averaged over members for aggregates
	Flag    string
	Rank    *Rank // only for non-aggregate entities present in the slice
	YoY     Comparison
	VsRef   map[string]Comparison // canonical ref code -> delta
	Above   *Neighbor
	Below   *Neighbor
}

// Engine derives comparative metrics from observation tables. Refs are the
// canonical codes of the fixed reference entities every metric is compared
// against (the EU aggregate and the home country, by default).
type Engine struct {
	Geo  *geo.Table
	Refs []string
}

// NewEngine wires an engine with the default reference set.
func NewEngine(g *geo.Table) *Engine {
	return &Engine{Geo: g, Refs: []string{"EU27_2020", "ES"}}
}

// Derive computes the metric for one target entity. Every step is a pure
// function of its inputs; nothing is cached.
func (e *Engine) Derive(t Table, target *geo.Entity, year int, sector SectorCode, unit UnitCode) Metric {
	m := Metric{
		Entity: target,
		Year:   year,
		Sector: sector,
		Unit:   unit,
		YoY:    Comparison{Status: CompareUnavailable},
		VsRef:  make(map[string]Comparison),
	}

	row, found := t.rowFor(e.Geo, target, year, sector, unit)
	if !found || !row.HasValue {
		// Absent or null value: no data, and no comparisons either.
		return m
	}
	m.HasData = true
	m.Raw = row.Value
	m.Flag = row.Flag
	m.Value = e.adjusted(row.Value, target, unit)

	// Rank among the non-aggregate peers of the slice.
	peers := e.peerRanking(t, year, sector, unit)
	if target.Kind != geo.Aggregate {
		for i, p := range peers {
			if p.Entity == target {
				m.Rank = &Rank{Position: i + 1, Total: len(peers)}
				m.Above, m.Below = e.neighbors(peers, i)
				break
			}
		}
	}

	// Year over year, against the same entity's adjusted prior value.
	// A zero or absent prior year both read as "unavailable": there is no
	// usable baseline either way.
	if prev, ok := t.ValueFor(e.Geo, target, year-1, sector, unit); ok {
		m.YoY = percentChange(m.Value, e.adjusted(prev, target, unit))
		if m.YoY.Status == CompareIncomparable {
			m.YoY = Comparison{Status: CompareUnavailable}
		}
	}

	// Deltas against the fixed reference entities.
	for _, code := range e.Refs {
		ref, err := e.Geo.ToCanonical(code, "")
		if err != nil || ref == target {
			continue
		}
		cmp := Comparison{Status: CompareUnavailable}
		if rv, ok := t.ValueFor(e.Geo, ref, year, sector, unit); ok {
			cmp = percentChange(m.Value, e.adjusted(rv, ref, unit))
		}
		m.VsRef[ref.Code] = cmp
	}
	return m
}

// Ranking returns the slice's non-aggregate entities sorted descending by
// value, 1-based positions assigned. Ties keep source order (stable sort).
func (e *Engine) Ranking(t Table, year int, sector SectorCode, unit UnitCode) []Ranked {
	return e.peerRanking(t, year, sector, unit)
}

// adjusted converts a reported value to a comparable per-entity magnitude.
// Source aggregates report sums across members, not the bloc average, so
// aggregate values are divided by member count. Count-like units round
// half-up; percentage-like units keep full precision.
func (e *Engine) adjusted(v float64, entity *geo.Entity, unit UnitCode) float64 {
	if entity.Kind != geo.Aggregate || entity.MemberCount == 0 {
		return v
	}
	avg := v / float64(entity.MemberCount)
	if unit.CountLike() {
		return math.Floor(avg + 0.5)
	}
	return avg
}

func (e *Engine) peerRanking(t Table, year int, sector SectorCode, unit UnitCode) []Ranked {
	var peers []Ranked
	seen := make(map[string]bool)
	for _, o := range t {
		if o.Year != year || o.Sector != sector || o.Unit != unit || !o.HasValue {
			continue
		}
		ent, err := e.Geo.ToCanonical(o.EntityCode, "")
		if err != nil {
			// Unmapped codes mean "no data", never a crash.
			continue
		}
		// An EU total is not a country to rank.
		if ent.Kind == geo.Aggregate {
			continue
		}
		// Duplicate rows: first in source order wins.
		if seen[ent.Code] {
			continue
		}
		seen[ent.Code] = true
		peers = append(peers, Ranked{Entity: ent, Value: o.Value, Flag: o.Flag})
	}
	sort.SliceStable(peers, func(i, j int) bool { return peers[i].Value > peers[j].Value })
	for i := range peers {
		peers[i].Position = i + 1
	}
	return peers
}

// neighbors returns the ranked entries directly above and below position i.
// Edge ranks get only the single available neighbor.
func (e *Engine) neighbors(peers []Ranked, i int) (above, below *Neighbor) {
	target := peers[i].Value
	if i > 0 {
		above = &Neighbor{
			Entity: peers[i-1].Entity,
			Value:  peers[i-1].Value,
			Gap:    percentChange(peers[i-1].Value, target),
		}
	}
	if i+1 < len(peers) {
		below = &Neighbor{
			Entity: peers[i+1].Entity,
			Value:  peers[i+1].Value,
			Gap:    percentChange(peers[i+1].Value, target),
		}
	}
	return above, below
}

// percentChange computes (current-base)/base*100. A zero base is reported
// as incomparable rather than dividing: the dataset contains structural
// zeros that must not turn into NaN or Inf.
func percentChange(current, base float64) Comparison {
	if base == 0 {
		return Comparison{Status: CompareIncomparable}
	}
	return Comparison{Percent: (current - base) / base * 100, Status: CompareOK}
}
