package zne

// HistoryEntry is one snapshot of an adaptive optimization: the data
// collected so far, the fitted parameters, and the zero-noise limit they
// imply.
type HistoryEntry struct {
	Measurements []Measurement
	Values       []float64
	Params       []float64
	Limit        float64
}
