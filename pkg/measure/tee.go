package measure

import "context"

// teeSink fans every append out to all underlying sinks. The first failure
// aborts the append; the traversal treats that as fatal anyway.
type teeSink struct {
	sinks []Sink
}

// Tee combines sinks into one. With a single sink it is returned unchanged.
func Tee(sinks ...Sink) Sink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return &teeSink{sinks: sinks}
}

func (t *teeSink) Append(ctx context.Context, ref int64, measures ...Measure) error {
	for _, s := range t.sinks {
		if err := s.Append(ctx, ref, measures...); err != nil {
			return err
		}
	}
	return nil
}

func (t *teeSink) Close() error {
	var first error
	for _, s := range t.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
