package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"climate-api/internal/modules/climate/types"
	"climate-api/internal/utils"
)

var availableRoutes = []string{
	"/api/v1.0/precipitation",
	"/api/v1.0/stations",
	"/api/v1.0/tobs",
	"/api/v1.0/start_date/<start>",
	"/api/v1.0/start_date/<start>/end_date/<end>",
}

func (c *climateControllerImpl) handleIndex(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	b.WriteString("Available Routes:\n")
	for _, route := range availableRoutes {
		b.WriteString(route)
		b.WriteByte('\n')
	}
	utils.WriteText(w, http.StatusOK, b.String())
}

func (c *climateControllerImpl) handleStartDate(w http.ResponseWriter, r *http.Request) {
	c.writeSummary(w, r, types.DateRange{Start: r.PathValue("start")})
}

func (c *climateControllerImpl) handleDateRange(w http.ResponseWriter, r *http.Request) {
	c.writeSummary(w, r, types.DateRange{Start: r.PathValue("start"), End: r.PathValue("end")})
}

func (c *climateControllerImpl) writeSummary(w http.ResponseWriter, r *http.Request, dr types.DateRange) {
	summary, err := c.service.SummarizeTemperatures(r.Context(), dr)
	if err != nil {
		writeQueryError(w, r, "temperature summary", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.service.Stations(r.Context())
	if err != nil {
		writeQueryError(w, r, "stations", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	prcp, err := c.service.Precipitation(r.Context())
	if err != nil {
		writeQueryError(w, r, "precipitation", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, prcp)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	obs, err := c.service.MostActiveStationObservations(r.Context())
	if err != nil {
		writeQueryError(w, r, "tobs", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, obs)
}

// writeQueryError maps any query error to 500 {"error": msg}.
func writeQueryError(w http.ResponseWriter, r *http.Request, op string, err error) {
	msg := err.Error()
	var qf *types.QueryFailure
	if errors.As(err, &qf) {
		msg = qf.Message
	}
	slog.Error(op+" query failed", "path", r.URL.Path, "error", err)
	utils.WriteError(w, http.StatusInternalServerError, msg)
}
