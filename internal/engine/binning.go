package engine

import (
	"fmt"
	"sort"
)

// Color is an opaque RGB fill color.
type Color struct {
	R, G, B uint8
}

// Hex renders the color the way the map and legend consume it.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Palette carries a sector's base color and the fill used for entities
// with no data in the current slice.
type Palette struct {
	Base   Color
	NoData Color
}

var noData = Color{R: 0xcc, G: 0xcc, B: 0xcc}

// SectorPalettes assigns each sector its choropleth base color.
var SectorPalettes = map[SectorCode]Palette{
	SectorTotal:      {Base: Color{0x29, 0x80, 0xb9}, NoData: noData},
	SectorBusiness:   {Base: Color{0xe6, 0x7e, 0x22}, NoData: noData},
	SectorGovernment: {Base: Color{0x27, 0xae, 0x60}, NoData: noData},
	SectorEducation:  {Base: Color{0x8e, 0x44, 0xad}, NoData: noData},
	SectorNonProfit:  {Base: Color{0x16, 0xa0, 0x85}, NoData: noData},
}

// Range is the [Min, Max] value span of the current slice. Computed per
// (year, sector, unit) from the values actually present, so coloring is
// always relative to the slice's own distribution.
type Range struct {
	Min, Max float64
}

// ValueRange scans the table for its present-value span. ok is false when
// the table holds no values at all.
func (t Table) ValueRange() (r Range, ok bool) {
	for _, o := range t {
		if !o.HasValue {
			continue
		}
		if !ok {
			r = Range{Min: o.Value, Max: o.Value}
			ok = true
			continue
		}
		if o.Value < r.Min {
			r.Min = o.Value
		}
		if o.Value > r.Max {
			r.Max = o.Value
		}
	}
	return r, ok
}

// RankedRange is the value span of a peer ranking. The choropleth colors
// relative to the countries actually on the map, so aggregate sums (already
// excluded from rankings) never stretch the scale.
func RankedRange(rs []Ranked) (r Range, ok bool) {
	for _, p := range rs {
		if !ok {
			r = Range{Min: p.Value, Max: p.Value}
			ok = true
			continue
		}
		if p.Value < r.Min {
			r.Min = p.Value
		}
		if p.Value > r.Max {
			r.Max = p.Value
		}
	}
	return r, ok
}

// EqualThresholds divides the span into five equal-width bands, returning
// the four inner cut points.
func EqualThresholds(r Range) []float64 {
	step := (r.Max - r.Min) / 5
	return []float64{r.Min + step, r.Min + 2*step, r.Min + 3*step, r.Min + 4*step}
}

// QuartileThresholds computes cut points at the 25th/50th/75th percentiles
// of the present positive values. Used for long-tailed series such as
// patent counts, where equal-width bands would lump everything into the
// lowest shade.
func QuartileThresholds(t Table) []float64 {
	var vals []float64
	for _, o := range t {
		if o.HasValue && o.Value > 0 {
			vals = append(vals, o.Value)
		}
	}
	if len(vals) == 0 {
		return nil
	}
	sort.Float64s(vals)
	return []float64{percentile(vals, 0.25), percentile(vals, 0.50), percentile(vals, 0.75)}
}

// percentile interpolates linearly between the closest ranks of a sorted
// sample.
func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// Bucket places a value among the bands cut by thresholds. The boundary is
// inclusive-low: a value equal to a threshold belongs to the band above it.
func Bucket(value float64, thresholds []float64) int {
	for i, th := range thresholds {
		if value < th {
			return i
		}
	}
	return len(thresholds)
}

// Shades derives n fills from the palette's base color: progressively
// lighter below the midpoint band, the base at the midpoint, progressively
// darker above it. Lowest band first.
func (p Palette) Shades(n int) []Color {
	if n <= 1 {
		return []Color{p.Base}
	}
	out := make([]Color, n)
	mid := float64(n-1) / 2
	for i := 0; i < n; i++ {
		// t runs -1..1 across the bands; negative lightens, positive darkens.
		t := (float64(i) - mid) / mid
		if t < 0 {
			out[i] = lerp(p.Base, Color{0xff, 0xff, 0xff}, -t*0.55)
		} else {
			out[i] = lerp(p.Base, Color{0x00, 0x00, 0x00}, t*0.45)
		}
	}
	return out
}

func lerp(from, to Color, t float64) Color {
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return Color{R: mix(from.R, to.R), G: mix(from.G, to.G), B: mix(from.B, to.B)}
}

// ColorFor maps a value to its choropleth fill: five equal-width bands
// over the slice range, no-data fill when hasValue is false.
func ColorFor(value float64, hasValue bool, p Palette, r Range) Color {
	if !hasValue {
		return p.NoData
	}
	shades := p.Shades(5)
	return shades[Bucket(value, EqualThresholds(r))]
}

// QuartileColorFor is the long-tail variant: four bands cut at the sample
// quartiles of the slice's positive values.
func QuartileColorFor(value float64, hasValue bool, p Palette, thresholds []float64) Color {
	if !hasValue || thresholds == nil {
		return p.NoData
	}
	shades := p.Shades(len(thresholds) + 1)
	return shades[Bucket(value, thresholds)]
}
