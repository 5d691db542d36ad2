package geo

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Kind classifies a canonical entity.
type Kind int

const (
	Country Kind = iota
	Aggregate
	Region
)

func (k Kind) String() string {
	switch k {
	case Country:
		return "country"
	case Aggregate:
		return "aggregate"
	case Region:
		return "region"
	}
	return "unknown"
}

// Entity is the single canonical representation of a country, region or
// supranational aggregate. Code is the Eurostat geo code, which doubles as
// the canonical code everywhere else in the program.
type Entity struct {
	Code        string
	Kind        Kind
	MemberCount int // set only for aggregates; drives the averaging rule
	ISO2        string
	ISO3        string
	Names       []string // English and Spanish names, plus common variants
	Aliases     []string // extra raw codes seen in source files
}

// Reason classifies why a raw identifier failed to resolve.
type Reason int

const (
	UnknownCode Reason = iota
	AmbiguousMatch
)

func (r Reason) String() string {
	if r == AmbiguousMatch {
		return "ambiguous match"
	}
	return "unknown code"
}

// ResolutionError reports a raw identifier that could not be mapped to a
// canonical entity. Callers treat it as "no data", never as fatal.
type ResolutionError struct {
	Raw    string
	Reason Reason
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("geo: cannot resolve %q: %s", e.Raw, e.Reason)
}

// entities is the static canonical table. Adding a country or aggregate is
// a data change here, not a code change.
var entities = []Entity{
	{Code: "AT", Kind: Country, ISO2: "AT", ISO3: "AUT", Names: []string{"Austria"}},
	{Code: "BE", Kind: Country, ISO2: "BE", ISO3: "BEL", Names: []string{"Belgium", "Bélgica"}},
	{Code: "BG", Kind: Country, ISO2: "BG", ISO3: "BGR", Names: []string{"Bulgaria"}},
	{Code: "HR", Kind: Country, ISO2: "HR", ISO3: "HRV", Names: []string{"Croatia", "Croacia"}},
	{Code: "CY", Kind: Country, ISO2: "CY", ISO3: "CYP", Names: []string{"Cyprus", "Chipre"}},
	{Code: "CZ", Kind: Country, ISO2: "CZ", ISO3: "CZE", Names: []string{"Czechia", "Czech Republic", "Chequia", "República Checa"}},
	{Code: "DK", Kind: Country, ISO2: "DK", ISO3: "DNK", Names: []string{"Denmark", "Dinamarca"}},
	{Code: "EE", Kind: Country, ISO2: "EE", ISO3: "EST", Names: []string{"Estonia"}},
	{Code: "FI", Kind: Country, ISO2: "FI", ISO3: "FIN", Names: []string{"Finland", "Finlandia"}},
	{Code: "FR", Kind: Country, ISO2: "FR", ISO3: "FRA", Names: []string{"France", "Francia"}},
	{Code: "DE", Kind: Country, ISO2: "DE", ISO3: "DEU", Names: []string{"Germany", "Alemania"}},
	// Greece reports as EL in Eurostat files but GR/GRC in ISO-keyed sources.
	{Code: "EL", Kind: Country, ISO2: "GR", ISO3: "GRC", Names: []string{"Greece", "Grecia"}},
	{Code: "HU", Kind: Country, ISO2: "HU", ISO3: "HUN", Names: []string{"Hungary", "Hungría"}},
	{Code: "IE", Kind: Country, ISO2: "IE", ISO3: "IRL", Names: []string{"Ireland", "Irlanda"}},
	{Code: "IT", Kind: Country, ISO2: "IT", ISO3: "ITA", Names: []string{"Italy", "Italia"}},
	{Code: "LV", Kind: Country, ISO2: "LV", ISO3: "LVA", Names: []string{"Latvia", "Letonia"}},
	{Code: "LT", Kind: Country, ISO2: "LT", ISO3: "LTU", Names: []string{"Lithuania", "Lituania"}},
	{Code: "LU", Kind: Country, ISO2: "LU", ISO3: "LUX", Names: []string{"Luxembourg", "Luxemburgo"}},
	{Code: "MT", Kind: Country, ISO2: "MT", ISO3: "MLT", Names: []string{"Malta"}},
	{Code: "NL", Kind: Country, ISO2: "NL", ISO3: "NLD", Names: []string{"Netherlands", "Países Bajos"}},
	{Code: "PL", Kind: Country, ISO2: "PL", ISO3: "POL", Names: []string{"Poland", "Polonia"}},
	{Code: "PT", Kind: Country, ISO2: "PT", ISO3: "PRT", Names: []string{"Portugal"}},
	{Code: "RO", Kind: Country, ISO2: "RO", ISO3: "ROU", Names: []string{"Romania", "Rumanía"}},
	{Code: "SK", Kind: Country, ISO2: "SK", ISO3: "SVK", Names: []string{"Slovakia", "Eslovaquia"}},
	{Code: "SI", Kind: Country, ISO2: "SI", ISO3: "SVN", Names: []string{"Slovenia", "Eslovenia"}},
	{Code: "ES", Kind: Country, ISO2: "ES", ISO3: "ESP", Names: []string{"Spain", "España"}},
	{Code: "SE", Kind: Country, ISO2: "SE", ISO3: "SWE", Names: []string{"Sweden", "Suecia"}},
	// The UK is UK in Eurostat files, GB/GBR in ISO-keyed sources.
	{Code: "UK", Kind: Country, ISO2: "GB", ISO3: "GBR", Names: []string{"United Kingdom", "Reino Unido"}},
	{Code: "NO", Kind: Country, ISO2: "NO", ISO3: "NOR", Names: []string{"Norway", "Noruega"}},
	{Code: "CH", Kind: Country, ISO2: "CH", ISO3: "CHE", Names: []string{"Switzerland", "Suiza"}},
	{Code: "IS", Kind: Country, ISO2: "IS", ISO3: "ISL", Names: []string{"Iceland", "Islandia"}},
	{Code: "TR", Kind: Country, ISO2: "TR", ISO3: "TUR", Names: []string{"Türkiye", "Turkey", "Turquía"}},

	// Supranational aggregates. Recognized by membership in this table,
	// never by prefix heuristics.
	{Code: "EU27_2020", Kind: Aggregate, MemberCount: 27, Names: []string{"European Union", "Unión Europea", "EU-27"}, Aliases: []string{"EU", "EU27"}},
	{Code: "EU28", Kind: Aggregate, MemberCount: 28, Names: []string{"EU-28"}},
	{Code: "EA19", Kind: Aggregate, MemberCount: 19, Names: []string{"Euro area (19)", "Zona euro (19)"}},
	{Code: "EA20", Kind: Aggregate, MemberCount: 20, Names: []string{"Euro area (20)", "Zona euro (20)"}, Aliases: []string{"EA"}},

	// Home region of the dashboard.
	{Code: "ES70", Kind: Region, Names: []string{"Canarias", "Canary Islands"}},
}

// Table indexes the canonical entities by every raw code and normalized
// name they are known under. Immutable after construction; safe for
// concurrent reads.
type Table struct {
	list   []Entity
	byCode map[string]*Entity
	byName map[string][]*Entity
}

// NewTable builds the lookup indexes and validates the source data. A code
// claimed by two different entities is a fatal configuration error: partial
// mappings must never reach callers.
func NewTable(src []Entity) (*Table, error) {
	t := &Table{
		list:   src,
		byCode: make(map[string]*Entity),
		byName: make(map[string][]*Entity),
	}
	for i := range t.list {
		e := &t.list[i]
		codes := []string{e.Code, e.ISO2, e.ISO3}
		codes = append(codes, e.Aliases...)
		for _, c := range codes {
			if c == "" {
				continue
			}
			key := strings.ToUpper(c)
			if prev, ok := t.byCode[key]; ok && prev != e {
				return nil, eris.Errorf("geo: code %q claimed by both %s and %s", key, prev.Code, e.Code)
			}
			t.byCode[key] = e
		}
		for _, n := range e.Names {
			key := NormalizeText(n)
			if key == "" {
				return nil, eris.Errorf("geo: entity %s has an empty name", e.Code)
			}
			t.byName[key] = appendName(t.byName[key], e)
		}
	}
	return t, nil
}

func appendName(existing []*Entity, e *Entity) []*Entity {
	for _, p := range existing {
		if p == e {
			return existing
		}
	}
	return append(existing, e)
}

// Default is the process-wide canonical table.
var Default = func() *Table {
	t, err := NewTable(entities)
	if err != nil {
		panic(err)
	}
	return t
}()

// ToCanonical maps a raw code (ISO2, ISO3, Eurostat geo code or a known
// alias) to its canonical entity. When the code is unknown and a free-text
// name hint is available, it falls back to a normalized-name lookup.
func (t *Table) ToCanonical(rawCode, nameHint string) (*Entity, error) {
	if raw := strings.ToUpper(strings.TrimSpace(rawCode)); raw != "" {
		if e, ok := t.byCode[raw]; ok {
			return e, nil
		}
	}
	if nameHint != "" {
		if e, err := t.ByName(nameHint); err == nil {
			return e, nil
		} else if rerr, ok := err.(*ResolutionError); ok && rerr.Reason == AmbiguousMatch {
			return nil, rerr
		}
	}
	return nil, &ResolutionError{Raw: rawCode, Reason: UnknownCode}
}

// ByName resolves a free-text name in any of the table's languages.
func (t *Table) ByName(name string) (*Entity, error) {
	matches := t.byName[NormalizeText(name)]
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, &ResolutionError{Raw: name, Reason: UnknownCode}
	default:
		return nil, &ResolutionError{Raw: name, Reason: AmbiguousMatch}
	}
}

// IsAggregate reports whether a raw code names a supranational aggregate.
func (t *Table) IsAggregate(code string) bool {
	e, ok := t.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return ok && e.Kind == Aggregate
}

// Entities returns the canonical entities in table order.
func (t *Table) Entities() []Entity {
	return t.list
}
