package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"climate-api/internal/db"
	"climate-api/internal/modules/climate/types"
)

//go:embed sql/get-temperature-stats.sql
var getTemperatureStatsSQL string

//go:embed sql/get-temperature-stats-range.sql
var getTemperatureStatsRangeSQL string

//go:embed sql/get-stations.sql
var getStationsSQL string

//go:embed sql/get-latest-date.sql
var getLatestDateSQL string

//go:embed sql/get-precipitation.sql
var getPrecipitationSQL string

//go:embed sql/get-most-active-station.sql
var getMostActiveStationSQL string

//go:embed sql/get-station-observations.sql
var getStationObservationsSQL string

const isoDate = "2006-01-02"

// ClimateRepository reads the measurement dataset. Every method runs inside its
// own connection and read-only transaction, released before it returns. All
// errors are *types.QueryFailure.
type ClimateRepository interface {
	TemperatureStats(ctx context.Context, r types.DateRange) (types.TemperatureStats, error)
	Stations(ctx context.Context) ([]types.Station, error)
	RecentPrecipitation(ctx context.Context) ([]types.Precipitation, error)
	MostActiveStationObservations(ctx context.Context) (types.StationObservations, error)
}

type queries struct {
	temperatureStats      string
	temperatureStatsRange string
	stations              string
	latestDate            string
	precipitation         string
	mostActiveStation     string
	stationObservations   string
}

type repositoryImpl struct {
	db      *sql.DB
	queries queries
}

func NewRepository(conn *sql.DB, driverName string) ClimateRepository {
	return &repositoryImpl{
		db: conn,
		queries: queries{
			temperatureStats:      db.Rebind(driverName, getTemperatureStatsSQL),
			temperatureStatsRange: db.Rebind(driverName, getTemperatureStatsRangeSQL),
			stations:              db.Rebind(driverName, getStationsSQL),
			latestDate:            db.Rebind(driverName, getLatestDateSQL),
			precipitation:         db.Rebind(driverName, getPrecipitationSQL),
			mostActiveStation:     db.Rebind(driverName, getMostActiveStationSQL),
			stationObservations:   db.Rebind(driverName, getStationObservationsSQL),
		},
	}
}

// withReadTx acquires a dedicated connection and read-only transaction for fn.
// Both are released on every return path.
func (r *repositoryImpl) withReadTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return types.NewQueryFailure(fmt.Errorf("acquire connection: %w", err))
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("release connection", "error", err)
		}
	}()

	tx, err := conn.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return types.NewQueryFailure(fmt.Errorf("begin read transaction: %w", err))
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("rollback read transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return types.NewQueryFailure(err)
	}
	return nil
}

func (r *repositoryImpl) TemperatureStats(ctx context.Context, dr types.DateRange) (types.TemperatureStats, error) {
	query, args := r.queries.temperatureStats, []any{dr.Start}
	if !dr.OpenEnded() {
		query, args = r.queries.temperatureStatsRange, []any{dr.Start, dr.End}
	}

	var stats types.TemperatureStats
	err := r.withReadTx(ctx, func(tx *sql.Tx) error {
		var minT, maxT, avgT sql.NullFloat64
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&minT, &maxT, &avgT); err != nil {
			return err
		}
		stats = types.TemperatureStats{
			Min: nullFloat(minT),
			Max: nullFloat(maxT),
			Avg: nullFloat(avgT),
		}
		return nil
	})
	return stats, err
}

func (r *repositoryImpl) Stations(ctx context.Context) ([]types.Station, error) {
	out := []types.Station{}
	err := r.withReadTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, r.queries.stations)
		if err != nil {
			return err
		}
		defer closeRows(rows, "stations")
		for rows.Next() {
			var (
				s              types.Station
				name           sql.NullString
				lat, lng, elev sql.NullFloat64
			)
			if err := rows.Scan(&s.Station, &name, &lat, &lng, &elev); err != nil {
				return err
			}
			s.Name = name.String
			s.Latitude = nullFloat(lat)
			s.Longitude = nullFloat(lng)
			s.Elevation = nullFloat(elev)
			out = append(out, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecentPrecipitation returns every precipitation row from the year ending at
// the latest date in the dataset, ordered by date then station.
func (r *repositoryImpl) RecentPrecipitation(ctx context.Context) ([]types.Precipitation, error) {
	out := []types.Precipitation{}
	err := r.withReadTx(ctx, func(tx *sql.Tx) error {
		since, ok, err := r.yearBeforeLatest(ctx, tx)
		if err != nil || !ok {
			return err
		}
		rows, err := tx.QueryContext(ctx, r.queries.precipitation, since)
		if err != nil {
			return err
		}
		defer closeRows(rows, "precipitation")
		for rows.Next() {
			var (
				p    types.Precipitation
				prcp sql.NullFloat64
			)
			if err := rows.Scan(&p.Date, &p.Station, &prcp); err != nil {
				return err
			}
			p.Prcp = nullFloat(prcp)
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MostActiveStationObservations returns the temperature observations of the
// station with the most measurements, over the year ending at the latest date
// in the dataset. Ties go to the lowest station id.
func (r *repositoryImpl) MostActiveStationObservations(ctx context.Context) (types.StationObservations, error) {
	out := types.StationObservations{Observations: []types.Observation{}}
	err := r.withReadTx(ctx, func(tx *sql.Tx) error {
		since, ok, err := r.yearBeforeLatest(ctx, tx)
		if err != nil || !ok {
			return err
		}
		var station string
		if err := tx.QueryRowContext(ctx, r.queries.mostActiveStation).Scan(&station); err != nil {
			return fmt.Errorf("most active station: %w", err)
		}
		out.Station = station

		rows, err := tx.QueryContext(ctx, r.queries.stationObservations, station, since)
		if err != nil {
			return err
		}
		defer closeRows(rows, "observations")
		for rows.Next() {
			var o types.Observation
			if err := rows.Scan(&o.Date, &o.Tobs); err != nil {
				return err
			}
			out.Observations = append(out.Observations, o)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if n := len(out.Observations); n > 0 {
			first, last := out.Observations[0].Date, out.Observations[n-1].Date
			out.StartDate, out.EndDate = &first, &last
		}
		return nil
	})
	if err != nil {
		return types.StationObservations{}, err
	}
	return out, nil
}

// yearBeforeLatest returns the date one year before the newest measurement.
// ok is false when the dataset has no measurements.
func (r *repositoryImpl) yearBeforeLatest(ctx context.Context, tx *sql.Tx) (string, bool, error) {
	var latest sql.NullString
	if err := tx.QueryRowContext(ctx, r.queries.latestDate).Scan(&latest); err != nil {
		return "", false, fmt.Errorf("latest date: %w", err)
	}
	if !latest.Valid {
		return "", false, nil
	}
	since, err := YearBefore(latest.String)
	if err != nil {
		return "", false, err
	}
	return since, true, nil
}

// YearBefore returns the ISO date one calendar year before date. Only the
// leading yyyy-mm-dd part of date is considered.
func YearBefore(date string) (string, error) {
	if len(date) < len(isoDate) {
		return "", fmt.Errorf("latest date %q is not an ISO date", date)
	}
	t, err := time.Parse(isoDate, date[:len(isoDate)])
	if err != nil {
		return "", fmt.Errorf("latest date %q: %w", date, err)
	}
	return t.AddDate(-1, 0, 0).Format(isoDate), nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close rows", "query", what, "error", err)
	}
}
