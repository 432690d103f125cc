package dedupe

type options struct {
	capacityHint int
}

// Option applies a configuration option to NewOrderedSet.
type Option func(*options)

// WithCapacityHint pre-sizes the set for about n names. Non-positive values are ignored.
func WithCapacityHint(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacityHint = n
		}
	}
}
