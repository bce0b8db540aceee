package trace

import "context"

type ctxKey struct{}

// FromContext returns the tracer attached by WithTracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(ctxKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx; nil means Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, t)
}
