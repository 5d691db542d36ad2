package engine

import (
	"rdboard/internal/geo"
	"strings"
)

// SectorCode is the performance sector an observation belongs to.
type SectorCode int

const (
	SectorTotal SectorCode = iota
	SectorBusiness
	SectorGovernment
	SectorEducation
	SectorNonProfit
)

func (s SectorCode) String() string {
	switch s {
	case SectorTotal:
		return "TOTAL"
	case SectorBusiness:
		return "BES"
	case SectorGovernment:
		return "GOV"
	case SectorEducation:
		return "HES"
	case SectorNonProfit:
		return "PNP"
	}
	return "UNKNOWN"
}

// Label is the display name used by the API and the report exporter.
func (s SectorCode) Label() string {
	switch s {
	case SectorTotal:
		return "All sectors"
	case SectorBusiness:
		return "Business enterprise"
	case SectorGovernment:
		return "Government"
	case SectorEducation:
		return "Higher education"
	case SectorNonProfit:
		return "Private non-profit"
	}
	return "Unknown"
}

// Sectors lists every sector in display order.
var Sectors = []SectorCode{SectorTotal, SectorBusiness, SectorGovernment, SectorEducation, SectorNonProfit}

// sectorSpellings collects the raw spellings each source file uses:
// Eurostat sectperf codes, free text in English, free text in Spanish.
// Keys are pre-normalized.
var sectorSpellings = map[string]SectorCode{
	"total":                       SectorTotal,
	"all sectors":                 SectorTotal,
	"todos los sectores":          SectorTotal,
	"bes":                         SectorBusiness,
	"business enterprise sector":  SectorBusiness,
	"empresas":                    SectorBusiness,
	"gov":                         SectorGovernment,
	"government sector":           SectorGovernment,
	"administracion publica":      SectorGovernment,
	"hes":                         SectorEducation,
	"higher education sector":     SectorEducation,
	"ensenanza superior":          SectorEducation,
	"pnp":                         SectorNonProfit,
	"private non-profit sector":   SectorNonProfit,
	"instituciones privadas sin fines de lucro": SectorNonProfit,
}

// ParseSector normalizes any known raw spelling to its SectorCode.
func ParseSector(raw string) (SectorCode, bool) {
	s, ok := sectorSpellings[geo.NormalizeText(raw)]
	return s, ok
}

// UnitCode is the measurement unit of an observation. The unit decides the
// rounding convention applied after aggregate averaging: count-like values
// round half-up to whole numbers, percentage-like values never round.
type UnitCode int

const (
	UnitPercentGDP UnitCode = iota // R&D expenditure as % of GDP
	UnitEuroPerHab                 // euro per inhabitant
	UnitFTE                        // researchers, full-time equivalents
	UnitHeadcount                  // researchers, head count
	UnitPerMillionHab              // patent applications per million inhabitants
	UnitNumber                     // plain counts
)

func (u UnitCode) String() string {
	switch u {
	case UnitPercentGDP:
		return "PC_GDP"
	case UnitEuroPerHab:
		return "EUR_HAB"
	case UnitFTE:
		return "FTE"
	case UnitHeadcount:
		return "HC"
	case UnitPerMillionHab:
		return "PER_MLN_HAB"
	case UnitNumber:
		return "NR"
	}
	return "UNKNOWN"
}

// CountLike reports whether the unit measures discrete quantities.
func (u UnitCode) CountLike() bool {
	switch u {
	case UnitFTE, UnitHeadcount, UnitNumber:
		return true
	}
	return false
}

var unitSpellings = map[string]UnitCode{
	"pc_gdp":      UnitPercentGDP,
	"eur_hab":     UnitEuroPerHab,
	"fte":         UnitFTE,
	"hc":          UnitHeadcount,
	"per_mln_hab": UnitPerMillionHab,
	"nr":          UnitNumber,
}

// ParseUnit maps a raw unit code to its UnitCode.
func ParseUnit(raw string) (UnitCode, bool) {
	u, ok := unitSpellings[strings.ToLower(strings.TrimSpace(raw))]
	return u, ok
}
