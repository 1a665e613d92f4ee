// Instant-mode fan-out.
//
// Instant mode converts one text-typed input into every modality at once
// instead of a single declared target. Each branch runs through the regular
// strategy table, so a branch can fail independently once real backing
// services replace the placeholders; the fan-out reports a per-mode
// result-or-error outcome instead of assuming total success.
package convert

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gesturepath/go-gesture-backend/internal/modes"
)

// Outcome is one branch of an instant-mode fan-out: either a Result or the
// error that branch produced.
type Outcome struct {
	Result *Result
	Err    error
}

// Fanout aggregates the per-mode outcomes of one instant-mode request.
// ProcessingTime is the total wall-clock time across all branches in whole
// milliseconds.
type Fanout struct {
	Outcomes       map[modes.Mode]Outcome
	ProcessingTime int64
	Timestamp      time.Time
}

// ConvertAll fans content out to conversions for every mode in the set,
// treating the input as text. The text branch is the same-mode pass-through.
func (r *Router) ConvertAll(ctx context.Context, content string) *Fanout {
	tr := otel.Tracer("convert/Router")
	ctx, span := tr.Start(ctx, "ConvertAll",
		trace.WithAttributes(attribute.Int("conversion.branches", len(modes.All()))),
	)
	defer span.End()

	start := r.now()
	outcomes := make(map[modes.Mode]Outcome, len(modes.All()))
	for _, target := range modes.All() {
		res, err := r.Convert(ctx, content, modes.Text, target)
		outcomes[target] = Outcome{Result: res, Err: err}
	}

	return &Fanout{
		Outcomes:       outcomes,
		ProcessingTime: r.now().Sub(start).Milliseconds(),
		Timestamp:      r.now().UTC(),
	}
}
