package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"rdboard/internal/config"
	"rdboard/internal/engine"
	"rdboard/internal/geo"
)

// Offline report exporter: one XLSX workbook with the full ranking and the
// choropleth legend for a (year, sector, unit) slice, plus a PNG bar chart
// of the ranking.

func main() {
	var (
		year   = flag.Int("year", 2022, "observation year")
		sector = flag.String("sector", "TOTAL", "sector code")
		unit   = flag.String("unit", "PC_GDP", "unit code")
		out    = flag.String("out", "rd_report", "output file prefix")
	)
	flag.Parse()

	sc, ok := engine.ParseSector(*sector)
	if !ok {
		log.Fatalf("unknown sector %q", *sector)
	}
	uc, ok := engine.ParseUnit(*unit)
	if !ok {
		log.Fatalf("unknown unit %q", *unit)
	}

	cfg := config.Get()
	obs, err := engine.LoadAll(cfg.DataFiles...)
	if err != nil {
		log.Fatalf("load observations: %v", err)
	}

	eng := engine.NewEngine(geo.Default)
	eng.Refs = cfg.RefGeos

	ranked := eng.Ranking(obs, *year, sc, uc)
	if len(ranked) == 0 {
		log.Fatalf("no data for %d/%s/%s", *year, sc, uc)
	}

	xlsxPath := *out + ".xlsx"
	if err := writeWorkbook(xlsxPath, eng, obs, ranked, *year, sc, uc); err != nil {
		log.Fatalf("write workbook: %v", err)
	}
	pngPath := *out + ".png"
	if err := writeChart(pngPath, ranked, sc); err != nil {
		log.Fatalf("write chart: %v", err)
	}

	log.Printf("Report complete: %s, %s (%d entities)", xlsxPath, pngPath, len(ranked))
}

func writeWorkbook(path string, eng *engine.Engine, obs engine.Table, ranked []engine.Ranked, year int, sc engine.SectorCode, uc engine.UnitCode) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Ranking"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Position", "Geo", "Country", "Value", "YoY %", "Flag"}
	for _, ref := range eng.Refs {
		headers = append(headers, "vs "+ref+" %")
	}
	for i, htxt := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, htxt)
	}

	for i, r := range ranked {
		row := i + 2
		m := eng.Derive(obs, r.Entity, year, sc, uc)

		set := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			f.SetCellValue(sheet, cell, v)
		}
		set(1, r.Position)
		set(2, r.Entity.Code)
		set(3, r.Entity.Names[0])
		set(4, m.Value)
		set(5, comparisonCell(m.YoY))
		set(6, r.Flag)
		for j, ref := range eng.Refs {
			set(7+j, comparisonCell(m.VsRef[ref]))
		}
	}

	// Legend sheet: the thresholds and fills the map uses for this slice.
	legend := "Legend"
	f.NewSheet(legend)
	rng, _ := engine.RankedRange(ranked)
	palette := engine.SectorPalettes[sc]
	shades := palette.Shades(5)
	thresholds := engine.EqualThresholds(rng)

	f.SetCellValue(legend, "A1", "Band")
	f.SetCellValue(legend, "B1", "Upper bound")
	f.SetCellValue(legend, "C1", "Fill")
	for i, s := range shades {
		row := i + 2
		f.SetCellValue(legend, fmt.Sprintf("A%d", row), i+1)
		if i < len(thresholds) {
			f.SetCellValue(legend, fmt.Sprintf("B%d", row), thresholds[i])
		} else {
			f.SetCellValue(legend, fmt.Sprintf("B%d", row), rng.Max)
		}
		f.SetCellValue(legend, fmt.Sprintf("C%d", row), s.Hex())
	}
	f.SetCellValue(legend, "A8", "Slice")
	f.SetCellValue(legend, "B8", fmt.Sprintf("%d / %s / %s", year, sc.Label(), uc))

	return f.SaveAs(path)
}

func comparisonCell(c engine.Comparison) any {
	if c.Status != engine.CompareOK {
		return strings.ToUpper(c.Status.String())
	}
	return c.Percent
}

func writeChart(path string, ranked []engine.Ranked, sc engine.SectorCode) error {
	p := plot.New()
	p.Title.Text = sc.Label() + " — ranking"
	p.Y.Label.Text = "value"

	vals := make(plotter.Values, len(ranked))
	labels := make([]string, len(ranked))
	for i, r := range ranked {
		vals[i] = r.Value
		labels[i] = r.Entity.Code
	}

	bars, err := plotter.NewBarChart(vals, vg.Points(16))
	if err != nil {
		return err
	}
	base := engine.SectorPalettes[sc].Base
	bars.Color = color.RGBA{R: base.R, G: base.G, B: base.B, A: 255}
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.9
	p.X.Tick.Label.YAlign = -0.5

	return p.Save(12*vg.Inch, 5*vg.Inch, path)
}
