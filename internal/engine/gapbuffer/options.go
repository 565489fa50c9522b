package gapbuffer

// Default configuration values.
const (
	// DefaultInitialGap is the gap pre-allocated by New.
	DefaultInitialGap = 20

	// DefaultGrowthDivisor bounds growth to at least Len()/64 bytes.
	DefaultGrowthDivisor = 64
)

// Option is a functional option for configuring a GapBuffer.
type Option func(*GapBuffer)

// WithInitialGap sets the size of the gap allocated at creation.
func WithInitialGap(size int) Option {
	return func(b *GapBuffer) {
		if size >= 0 {
			b.initialGap = size
		}
	}
}

// WithGrowthDivisor sets the divisor of the amortized growth policy.
// Smaller values grow more aggressively.
func WithGrowthDivisor(divisor int) Option {
	return func(b *GapBuffer) {
		if divisor > 0 {
			b.growthDivisor = divisor
		}
	}
}

// WithAllocator sets the allocator used for all storage resizes.
func WithAllocator(a Allocator) Option {
	return func(b *GapBuffer) {
		if a != nil {
			b.alloc = a
		}
	}
}

// WithMaxCapacity limits total storage to limit bytes.
// It is shorthand for WithAllocator(LimitAllocator{Limit: limit}).
func WithMaxCapacity(limit int) Option {
	return func(b *GapBuffer) {
		if limit > 0 {
			b.alloc = LimitAllocator{Limit: limit}
		}
	}
}
