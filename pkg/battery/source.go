// Package battery samples the host battery.
//
// A Source returns a Raw sample with the level, the scale and the charging
// status. Raw.Reading validates it and converts it to a percentage. Sources
// report missing values with the -1 sentinel instead of failing, so the
// caller can skip the sample and keep going.
package battery

import "context"

// Source provides battery samples.
type Source interface {
	Read(ctx context.Context) (Raw, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context) (Raw, error)

// Read calls f.
func (f SourceFunc) Read(ctx context.Context) (Raw, error) {
	return f(ctx)
}
