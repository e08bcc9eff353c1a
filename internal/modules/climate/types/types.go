package types

// EndOfDataset is echoed as end_date when a range has no upper bound.
const EndOfDataset = "end of dataset"

// DateRange is an inclusive range of ISO date strings. An empty End means
// the range is open to the end of the dataset.
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) OpenEnded() bool { return r.End == "" }

// TemperatureStats holds aggregates over tobs; nil fields mean no rows matched.
type TemperatureStats struct {
	Min *float64
	Max *float64
	Avg *float64
}

type TemperatureSummary struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	MinTemp   *float64 `json:"min_temp"`
	MaxTemp   *float64 `json:"max_temp"`
	AvgTemp   *float64 `json:"avg_temp"`
}

type Station struct {
	Station   string   `json:"station"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Elevation *float64 `json:"elevation"`
}

type Precipitation struct {
	Date    string
	Station string
	Prcp    *float64
}

type Observation struct {
	Date string  `json:"date"`
	Tobs float64 `json:"tobs"`
}

type StationObservations struct {
	Station      string        `json:"station"`
	StartDate    *string       `json:"start_date"`
	EndDate      *string       `json:"end_date"`
	Observations []Observation `json:"observations"`
}
