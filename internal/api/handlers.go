package api

import (
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/labstack/echo/v4"

	"rdboard/internal/engine"
	"rdboard/internal/geo"
	"rdboard/internal/models"
)

// Dataset is everything the handlers serve from: one concatenated
// observation table plus the map features.
type Dataset struct {
	Obs      engine.Table
	Features []geo.Feature
}

type Handler struct {
	eng  *engine.Engine
	data atomic.Pointer[Dataset]
}

func NewHandler(eng *engine.Engine) *Handler {
	return &Handler{eng: eng}
}

// SetData publishes a loaded dataset. Until the first call every endpoint
// answers 503.
func (h *Handler) SetData(d *Dataset) {
	h.data.Store(d)
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/metrics", h.GetMetric)
	api.GET("/ranking", h.GetRanking)
	api.GET("/choropleth", h.GetChoropleth)
	api.GET("/years", h.GetYears)
	api.GET("/sectors", h.GetSectors)
}

// --- HANDLERS ---

func (h *Handler) dataset() (*Dataset, error) {
	d := h.data.Load()
	if d == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "data still loading")
	}
	return d, nil
}

// sliceParams reads the (year, sector, unit) selector every endpoint takes.
func sliceParams(c echo.Context) (int, engine.SectorCode, engine.UnitCode, error) {
	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil || year <= 0 {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "bad or missing year")
	}
	sector, ok := engine.ParseSector(c.QueryParam("sector"))
	if !ok {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "unknown sector")
	}
	unit, ok := engine.ParseUnit(c.QueryParam("unit"))
	if !ok {
		return 0, 0, 0, echo.NewHTTPError(http.StatusBadRequest, "unknown unit")
	}
	return year, sector, unit, nil
}

func (h *Handler) GetMetric(c echo.Context) error {
	d, err := h.dataset()
	if err != nil {
		return err
	}
	year, sector, unit, err := sliceParams(c)
	if err != nil {
		return err
	}
	target, rerr := h.eng.Geo.ToCanonical(c.QueryParam("geo"), c.QueryParam("name"))
	if rerr != nil {
		return echo.NewHTTPError(http.StatusNotFound, rerr.Error())
	}
	m := h.eng.Derive(d.Obs, target, year, sector, unit)
	return c.JSON(http.StatusOK, toMetricDTO(m))
}

func (h *Handler) GetRanking(c echo.Context) error {
	d, err := h.dataset()
	if err != nil {
		return err
	}
	year, sector, unit, err := sliceParams(c)
	if err != nil {
		return err
	}
	ranked := h.eng.Ranking(d.Obs, year, sector, unit)
	rows := make([]models.RankingRow, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, models.RankingRow{
			Position: r.Position,
			Geo:      r.Entity.Code,
			Name:     displayName(r.Entity),
			Value:    r.Value,
			Flag:     r.Flag,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows, "total": len(rows)})
}

func (h *Handler) GetChoropleth(c echo.Context) error {
	d, err := h.dataset()
	if err != nil {
		return err
	}
	year, sector, unit, err := sliceParams(c)
	if err != nil {
		return err
	}

	// Scale relative to the ranked peer values: aggregate sums would
	// otherwise flatten every country into the lowest band.
	ranked := h.eng.Ranking(d.Obs, year, sector, unit)
	rng, _ := engine.RankedRange(ranked)
	palette := engine.SectorPalettes[sector]

	out := models.Choropleth{
		Year:   year,
		Sector: sector.String(),
		Unit:   unit.String(),
		Cells:  make([]models.ChoroplethCell, 0, len(d.Features)),
		Legend: models.Legend{
			Thresholds: engine.EqualThresholds(rng),
			NoData:     palette.NoData.Hex(),
		},
	}
	for _, s := range palette.Shades(5) {
		out.Legend.Shades = append(out.Legend.Shades, s.Hex())
	}

	for i, f := range d.Features {
		cell := models.ChoroplethCell{FeatureID: featureID(f, i)}
		ent, rerr := h.eng.Geo.ResolveFeature(f)
		if rerr == nil {
			cell.Geo = ent.Code
			if m := h.eng.Derive(d.Obs, ent, year, sector, unit); m.HasData {
				cell.HasData = true
				v := m.Value
				cell.Value = &v
			}
		}
		// Unresolved features or missing values both paint as no-data.
		fill := engine.ColorFor(valueOrZero(cell.Value), cell.HasData, palette, rng)
		cell.Fill = fill.Hex()
		out.Cells = append(out.Cells, cell)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetYears(c echo.Context) error {
	d, err := h.dataset()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"years": d.Obs.Years()})
}

func (h *Handler) GetSectors(c echo.Context) error {
	d, err := h.dataset()
	if err != nil {
		return err
	}
	sectors := make([]models.SectorInfo, 0, len(engine.Sectors))
	for _, s := range d.Obs.SectorsPresent() {
		sectors = append(sectors, models.SectorInfo{Code: s.String(), Label: s.Label()})
	}
	return c.JSON(http.StatusOK, echo.Map{"sectors": sectors})
}

// --- DTO MAPPING ---

func displayName(e *geo.Entity) string {
	if len(e.Names) > 0 {
		return e.Names[0]
	}
	return e.Code
}

func featureID(f geo.Feature, i int) string {
	if f.ID != "" {
		return f.ID
	}
	return strconv.Itoa(i)
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func toComparisonDTO(c engine.Comparison) models.Comparison {
	out := models.Comparison{Status: c.Status.String()}
	if c.Status == engine.CompareOK {
		p := c.Percent
		out.Percent = &p
	}
	return out
}

func toNeighborDTO(n *engine.Neighbor) *models.Neighbor {
	if n == nil {
		return nil
	}
	return &models.Neighbor{
		Geo:        n.Entity.Code,
		Name:       displayName(n.Entity),
		Value:      n.Value,
		GapPercent: toComparisonDTO(n.Gap),
	}
}

func toMetricDTO(m engine.Metric) models.Metric {
	out := models.Metric{
		Geo:     m.Entity.Code,
		Name:    displayName(m.Entity),
		Kind:    m.Entity.Kind.String(),
		Year:    m.Year,
		Sector:  m.Sector.String(),
		Unit:    m.Unit.String(),
		HasData: m.HasData,
		Flag:    m.Flag,
		YoY:     toComparisonDTO(m.YoY),
		VsRef:   make(map[string]models.Comparison, len(m.VsRef)),
		Above:   toNeighborDTO(m.Above),
		Below:   toNeighborDTO(m.Below),
	}
	if m.HasData {
		v, raw := m.Value, m.Raw
		out.Value = &v
		out.Raw = &raw
	}
	if m.Rank != nil {
		out.Rank = &models.Rank{Position: m.Rank.Position, Total: m.Rank.Total}
	}
	for code, cmp := range m.VsRef {
		out.VsRef[code] = toComparisonDTO(cmp)
	}
	return out
}
