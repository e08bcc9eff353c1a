package types

// QueryFailure is the only error kind the climate queries report. Message is
// safe to return to clients.
type QueryFailure struct {
	Message string
	Err     error
}

func NewQueryFailure(err error) *QueryFailure {
	return &QueryFailure{Message: err.Error(), Err: err}
}

func (f *QueryFailure) Error() string { return f.Message }

func (f *QueryFailure) Unwrap() error { return f.Err }
