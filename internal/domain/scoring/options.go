package scoring

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithWeights overrides the weight of named signals. The resulting table is
// validated by NewAggregator.
func WithWeights(weights map[string]float64) Option {
	return func(a *Aggregator) {
		if len(weights) == 0 {
			return
		}
		// Copy the weights map to avoid external modifications
		a.weightOverrides = make(map[string]float64, len(weights))
		for k, v := range weights {
			a.weightOverrides[k] = v
		}
	}
}

// WithComboBonus sets the raw points added to arsenal synergy when the
// gyro/sweeper combo flag is set.
func WithComboBonus(points float64) Option {
	return func(a *Aggregator) {
		if points >= 0 {
			a.comboBonus = points
		}
	}
}
