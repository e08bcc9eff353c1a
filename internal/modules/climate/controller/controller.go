package controller

import (
	"context"
	"net/http"

	"climate-api/internal/modules/climate/types"
)

// ClimateService is the query surface the HTTP handlers depend on.
type ClimateService interface {
	SummarizeTemperatures(ctx context.Context, r types.DateRange) (types.TemperatureSummary, error)
	Stations(ctx context.Context) ([]types.Station, error)
	Precipitation(ctx context.Context) (map[string][]*float64, error)
	MostActiveStationObservations(ctx context.Context) (types.StationObservations, error)
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	service ClimateService
}

func NewClimateController(service ClimateService) ClimateController {
	return &climateControllerImpl{service: service}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleIndex)
	mux.HandleFunc("GET /api/v1.0/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET /api/v1.0/stations", c.handleStations)
	mux.HandleFunc("GET /api/v1.0/tobs", c.handleTobs)
	mux.HandleFunc("GET /api/v1.0/start_date/{start}", c.handleStartDate)
	mux.HandleFunc("GET /api/v1.0/start_date/{start}/end_date/{end}", c.handleDateRange)
}
