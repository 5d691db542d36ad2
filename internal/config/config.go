package config

import (
	"os"
	"strings"
)

// Configuration for the server and report commands. Everything comes from
// the environment with working defaults, so a bare `go run` serves the
// bundled datasets.
type Configuration struct {
	Port        string
	DataFiles   []string
	GeoJSONFile string
	HomeGeo     string   // the "home" reference country
	RefGeos     []string // reference entities every metric is compared against
}

// Get populates the configuration from the environment.
func Get() Configuration {
	cfg := Configuration{
		Port:        getenv("PORT", ":8080"),
		GeoJSONFile: getenv("GEOJSON_FILE", "data/countries.geojson"),
		HomeGeo:     getenv("HOME_GEO", "ES"),
	}
	files := getenv("DATA_FILES", "data/rd_expenditure.csv,data/researchers.csv,data/patents.csv")
	for _, f := range strings.Split(files, ",") {
		if f = strings.TrimSpace(f); f != "" {
			cfg.DataFiles = append(cfg.DataFiles, f)
		}
	}
	refs := getenv("REF_GEOS", "EU27_2020,"+cfg.HomeGeo)
	for _, r := range strings.Split(refs, ",") {
		if r = strings.TrimSpace(r); r != "" {
			cfg.RefGeos = append(cfg.RefGeos, r)
		}
	}
	if !strings.HasPrefix(cfg.Port, ":") {
		cfg.Port = ":" + cfg.Port
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
