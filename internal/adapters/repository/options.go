package repository

// Option applies a configuration option to the TreapBoard.
type Option func(*TreapBoard)

// WithSeed fixes the treap priority sequence. Useful for reproducible tests.
func WithSeed(seed uint64) Option {
	return func(b *TreapBoard) {
		b.seed = seed
	}
}
