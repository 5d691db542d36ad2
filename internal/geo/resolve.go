package geo

// Property keys seen across the polygon datasets the dashboard consumes
// (Eurostat CNTR shapes, Natural Earth, world-atlas). Checked in order.
var (
	iso3Keys = []string{"ISO3", "ISO3_CODE", "ADM0_A3", "ISO_A3", "iso_a3"}
	iso2Keys = []string{"ISO2", "ISO2_CODE", "CNTR_ID", "ISO_A2", "iso_a2"}
	nameKeys = []string{"NAME_ENGL", "CNTR_NAME", "NAME", "name", "ADMIN", "NAME_ES"}
)

// ResolveFeature maps a GeoJSON feature to its canonical entity.
//
// Order matters: polygon datasets are more reliable on ISO3 than on ISO2,
// and name strings vary by source language and punctuation, so codes are
// tried first and the first successful step wins.
func (t *Table) ResolveFeature(f Feature) (*Entity, error) {
	for _, k := range iso3Keys {
		if v := f.prop(k); v != "" {
			if e, err := t.ToCanonical(v, ""); err == nil {
				return e, nil
			}
		}
	}
	for _, k := range iso2Keys {
		if v := f.prop(k); v != "" {
			if e, err := t.ToCanonical(v, ""); err == nil {
				return e, nil
			}
		}
	}
	for _, k := range nameKeys {
		if v := f.prop(k); v != "" {
			e, err := t.ByName(v)
			if err == nil {
				return e, nil
			}
			if rerr, ok := err.(*ResolutionError); ok && rerr.Reason == AmbiguousMatch {
				return nil, rerr
			}
		}
	}
	return nil, &ResolutionError{Raw: f.label(), Reason: UnknownCode}
}

// Matches reports whether a raw observation code refers to the given
// entity, accepting any of its known code spellings.
func (t *Table) Matches(rawCode string, e *Entity) bool {
	if e == nil {
		return false
	}
	got, err := t.ToCanonical(rawCode, "")
	return err == nil && got == e
}
