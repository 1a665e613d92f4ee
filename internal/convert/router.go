// Package convert implements the mode-pair conversion router. Given validated
// content and a declared (inputMode, outputMode) pair, it selects the bound
// strategy, invokes it, measures wall-clock latency, and returns a structured
// result or a typed failure.
//
// The dispatch table holds exactly seven recognized entries: the six distinct
// cross-mode pairs over {text, audio, visual}, plus the same-mode pass-through.
// Each strategy is currently a deterministic placeholder transform; swapping a
// strategy for a real generation/transcription/vision client does not change
// the router's contract.
//
// The router holds no shared mutable state and is safe for full request-level
// parallelism.
package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/gesturepath/go-gesture-backend/internal/modes"
)

// Conversion-level errors.
var (
	// ErrUnsupportedConversion is returned for a cross-mode pair with no bound
	// strategy. Unreachable under the current closed mode set, but the table
	// defends it for future mode additions.
	ErrUnsupportedConversion = errors.New("unsupported conversion")

	// ErrConversionFailed wraps a strategy-level failure. Failures are surfaced
	// to the caller, never retried, never fatal to the process.
	ErrConversionFailed = errors.New("conversion failed")
)

// Strategy produces converted output for already-validated input content.
type Strategy func(content string) (string, error)

// Result is the outcome of a single successful conversion. It is transient:
// the router persists nothing.
type Result struct {
	Content        string
	InputMode      modes.Mode
	OutputMode     modes.Mode
	ProcessingTime int64 // whole milliseconds, >= 0
	Timestamp      time.Time
}

var (
	conversionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversions_total",
			Help: "Total number of conversion requests by mode pair and outcome.",
		},
		[]string{"input_mode", "output_mode", "outcome"},
	)

	conversionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "conversion_duration_seconds",
			Help:    "Duration of conversion strategy execution in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"input_mode", "output_mode"},
	)
)

func init() {
	prometheus.MustRegister(conversionsTotal, conversionDuration)
}

// pair is the ordered dispatch key.
type pair struct {
	in, out modes.Mode
}

// Router maps (inputMode, outputMode) pairs to strategies.
type Router struct {
	strategies  map[pair]Strategy
	passThrough Strategy

	// now is a test seam for deterministic timing.
	now func() time.Time
}

// NewRouter builds a Router with the default placeholder strategy table.
func NewRouter() *Router {
	r := &Router{
		strategies:  make(map[pair]Strategy, 6),
		passThrough: enhanceSameMode,
		now:         time.Now,
	}
	r.strategies[pair{modes.Text, modes.Visual}] = textToVisual
	r.strategies[pair{modes.Text, modes.Audio}] = textToAudio
	r.strategies[pair{modes.Visual, modes.Text}] = visualToText
	r.strategies[pair{modes.Visual, modes.Audio}] = visualToAudio
	r.strategies[pair{modes.Audio, modes.Text}] = audioToText
	r.strategies[pair{modes.Audio, modes.Visual}] = audioToVisual
	return r
}

// Convert dispatches content through the strategy bound to the ordered
// (input, output) pair. Equal modes take the pass-through/enhancement path.
//
// The reported ProcessingTime covers strategy execution only, measured after
// pair validation, in whole milliseconds.
func (r *Router) Convert(ctx context.Context, content string, input, output modes.Mode) (*Result, error) {
	tr := otel.Tracer("convert/Router")
	_, span := tr.Start(ctx, "Convert",
		trace.WithAttributes(
			attribute.String("conversion.input_mode", input.String()),
			attribute.String("conversion.output_mode", output.String()),
		),
	)
	defer span.End()

	if err := modes.ValidatePair(input, output); err != nil {
		return nil, err
	}

	strategy, ok := r.lookup(input, output)
	if !ok {
		conversionsTotal.WithLabelValues(input.String(), output.String(), "unsupported").Inc()
		return nil, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, input, output)
	}

	start := r.now()
	out, err := strategy(content)
	elapsed := r.now().Sub(start)

	conversionDuration.WithLabelValues(input.String(), output.String()).Observe(elapsed.Seconds())
	if err != nil {
		conversionsTotal.WithLabelValues(input.String(), output.String(), "error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}
	conversionsTotal.WithLabelValues(input.String(), output.String(), "ok").Inc()

	return &Result{
		Content:        out,
		InputMode:      input,
		OutputMode:     output,
		ProcessingTime: elapsed.Milliseconds(),
		Timestamp:      r.now().UTC(),
	}, nil
}

// lookup resolves the strategy for a validated pair. Same-mode pairs resolve
// to the pass-through strategy.
func (r *Router) lookup(input, output modes.Mode) (Strategy, bool) {
	if input == output {
		return r.passThrough, true
	}
	s, ok := r.strategies[pair{input, output}]
	return s, ok
}

// --- Placeholder strategies ---
//
// Each stands in for an external service call (image generation, TTS, vision,
// speech-to-text). The templated output preserves the input so callers and
// tests can trace content through the pipeline.

func enhanceSameMode(content string) (string, error) {
	return "Content processed and optimized:\n\n" + content +
		"\n\n[Content enhanced for better quality/format]", nil
}

func textToVisual(content string) (string, error) {
	return "Visual content generated from: \"" + content + "\"\n\n" +
		"[This would be an actual image/animation in the real implementation]\n\n" +
		"Suggested visual elements:\n" +
		"- Scene composition based on text description\n" +
		"- Color palette: warm/cool tones\n" +
		"- Style: photorealistic/artistic/abstract", nil
}

func textToAudio(content string) (string, error) {
	secs := (len(content) + 9) / 10
	return fmt.Sprintf("Audio generated from text:\n\n"+
		"[This would be an actual audio file in the real implementation]\n\n"+
		"Audio properties:\n"+
		"- Voice: Natural speech synthesis\n"+
		"- Duration: ~%d seconds\n"+
		"- Format: MP3/WAV", secs), nil
}

func visualToText(string) (string, error) {
	return "Text description of visual content:\n\n" +
		"[This would be actual image analysis in the real implementation]\n\n" +
		"Description:\n" +
		"- Scene: Detailed visual analysis\n" +
		"- Objects: List of detected objects\n" +
		"- Text: Any text found in the image\n" +
		"- Colors: Dominant color scheme\n" +
		"- Mood: Emotional tone of the image", nil
}

func visualToAudio(string) (string, error) {
	return "Audio interpretation of visual content:\n\n" +
		"[This would be actual audio generation in the real implementation]\n\n" +
		"Audio concept:\n" +
		"- Mood music matching visual tone\n" +
		"- Sound effects representing visual elements\n" +
		"- Audio description for accessibility", nil
}

func audioToText(content string) (string, error) {
	return "Transcription of audio content:\n\n" +
		"[This would be actual speech-to-text transcription]\n\n" +
		"Transcript:\n\"" + content + "\"\n\n" +
		"Metadata:\n" +
		"- Speaker identification\n" +
		"- Confidence scores\n" +
		"- Timestamps\n" +
		"- Language detection", nil
}

func audioToVisual(string) (string, error) {
	return "Visual representation of audio:\n\n" +
		"[This would be actual audio visualization]\n\n" +
		"Visualization:\n" +
		"- Waveform display\n" +
		"- Frequency spectrum\n" +
		"- Audio-reactive visual effects\n" +
		"- Music video style visuals", nil
}

// Preview returns the leading runes of content for log lines, mirroring the
// truncation applied by the request logger.
func Preview(content string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max]) + "..."
}
