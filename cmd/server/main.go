package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"rdboard/internal/api"
	"rdboard/internal/config"
	"rdboard/internal/engine"
	"rdboard/internal/geo"
)

func main() {
	cfg := config.Get()

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	eng := engine.NewEngine(geo.Default)
	eng.Refs = cfg.RefGeos

	// The API goes live immediately and answers 503 until the data lands.
	h := api.NewHandler(eng)
	h.RegisterRoutes(e)

	go func() {
		log.Println("BACKGROUND: loading datasets...")
		t0 := time.Now()

		obs, err := engine.LoadAll(cfg.DataFiles...)
		if err != nil {
			log.Fatalf("load observations: %v", err)
		}
		features, err := geo.LoadFeatures(cfg.GeoJSONFile)
		if err != nil {
			log.Fatalf("load geojson: %v", err)
		}

		h.SetData(&api.Dataset{Obs: obs, Features: features})
		log.Printf("BACKGROUND: %d rows, %d features loaded in %v. API fully ready.",
			len(obs), len(features), time.Since(t0))
	}()

	log.Printf("Server ready on %s (data loading in background...)", cfg.Port)
	e.Logger.Fatal(e.Start(cfg.Port))
}
