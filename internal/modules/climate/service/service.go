package service

import (
	"context"

	"climate-api/internal/modules/climate/repository"
	"climate-api/internal/modules/climate/types"
)

type Service struct {
	repository repository.ClimateRepository
}

func NewService(repository repository.ClimateRepository) *Service {
	return &Service{repository: repository}
}

// SummarizeTemperatures computes min, max and average tobs over the inclusive
// range. Aggregates are nil when nothing matches; that is not an error.
func (s *Service) SummarizeTemperatures(ctx context.Context, r types.DateRange) (types.TemperatureSummary, error) {
	stats, err := s.repository.TemperatureStats(ctx, r)
	if err != nil {
		return types.TemperatureSummary{}, err
	}
	endDate := r.End
	if r.OpenEnded() {
		endDate = types.EndOfDataset
	}
	return types.TemperatureSummary{
		StartDate: r.Start,
		EndDate:   endDate,
		MinTemp:   stats.Min,
		MaxTemp:   stats.Max,
		AvgTemp:   stats.Avg,
	}, nil
}

func (s *Service) Stations(ctx context.Context) ([]types.Station, error) {
	return s.repository.Stations(ctx)
}

// Precipitation groups the last year of precipitation by date. Values keep
// the repository's station order; missing readings stay null.
func (s *Service) Precipitation(ctx context.Context) (map[string][]*float64, error) {
	rows, err := s.repository.RecentPrecipitation(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]*float64)
	for _, p := range rows {
		out[p.Date] = append(out[p.Date], p.Prcp)
	}
	return out, nil
}

func (s *Service) MostActiveStationObservations(ctx context.Context) (types.StationObservations, error) {
	return s.repository.MostActiveStationObservations(ctx)
}
