package models

// JSON shapes served by the API. Comparisons use a pointer for the percent
// so "unavailable" and "incomparable" serialize as an explicit status with
// no number, never as 0.

type Comparison struct {
	Percent *float64 `json:"percent,omitempty"`
	Status  string   `json:"status"`
}

type Rank struct {
	Position int `json:"position"`
	Total    int `json:"total"`
}

type Neighbor struct {
	Geo        string     `json:"geo"`
	Name       string     `json:"name"`
	Value      float64    `json:"value"`
	GapPercent Comparison `json:"gap"`
}

type Metric struct {
	Geo     string                `json:"geo"`
	Name    string                `json:"name"`
	Kind    string                `json:"kind"`
	Year    int                   `json:"year"`
	Sector  string                `json:"sector"`
	Unit    string                `json:"unit"`
	HasData bool                  `json:"has_data"`
	Value   *float64              `json:"value,omitempty"`
	Raw     *float64              `json:"raw_value,omitempty"`
	Flag    string                `json:"flag,omitempty"`
	Rank    *Rank                 `json:"rank,omitempty"`
	YoY     Comparison            `json:"yoy"`
	VsRef   map[string]Comparison `json:"vs_ref"`
	Above   *Neighbor             `json:"above,omitempty"`
	Below   *Neighbor             `json:"below,omitempty"`
}

type RankingRow struct {
	Position int     `json:"position"`
	Geo      string  `json:"geo"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Flag     string  `json:"flag,omitempty"`
}

type ChoroplethCell struct {
	FeatureID string   `json:"feature_id"`
	Geo       string   `json:"geo,omitempty"`
	HasData   bool     `json:"has_data"`
	Value     *float64 `json:"value,omitempty"`
	Fill      string   `json:"fill"`
}

type Legend struct {
	Thresholds []float64 `json:"thresholds"`
	Shades     []string  `json:"shades"`
	NoData     string    `json:"no_data"`
}

type Choropleth struct {
	Year   int              `json:"year"`
	Sector string           `json:"sector"`
	Unit   string           `json:"unit"`
	Cells  []ChoroplethCell `json:"cells"`
	Legend Legend           `json:"legend"`
}

type SectorInfo struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}
