package dedupe

// Option applies a configuration option to a Deduper.
type Option func(*Deduper)

// WithSimilarityThreshold sets the title similarity above which offers may be duplicates.
// Values outside (0, 1] are ignored.
func WithSimilarityThreshold(threshold float64) Option {
	return func(d *Deduper) {
		if threshold > 0 && threshold <= 1 {
			d.similarity = threshold
		}
	}
}

// WithPriceTolerance sets the relative price gap below which offers may be duplicates.
// Values outside [0, 1) are ignored.
func WithPriceTolerance(tolerance float64) Option {
	return func(d *Deduper) {
		if tolerance >= 0 && tolerance < 1 {
			d.tolerance = tolerance
		}
	}
}
