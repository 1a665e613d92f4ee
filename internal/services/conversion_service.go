// Package services – ConversionService
//
// This file implements ConversionService, the application-level component in
// front of the conversion router. It validates request content, dispatches
// through the router (single pair or instant fan-out), and records each
// completed conversion in the per-user history read-model.
//
// History writes are best-effort: a failed insert is logged and never fails
// the conversion response.
package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/gesturepath/go-gesture-backend/internal/convert"
	"github.com/gesturepath/go-gesture-backend/internal/domain"
	"github.com/gesturepath/go-gesture-backend/internal/modes"
	"github.com/gesturepath/go-gesture-backend/internal/repo"
)

// ConversionService runs conversions and maintains the history read-model.
type ConversionService struct {
	DB     *gorm.DB
	Router *convert.Router
}

// NewConversionService constructs a ConversionService around the given router.
func NewConversionService(db *gorm.DB, r *convert.Router) *ConversionService {
	return &ConversionService{DB: db, Router: r}
}

// Convert runs one conversion for userID through the strategy bound to the
// (inputMode, outputMode) pair and records it in the history. Router errors
// (invalid mode, unsupported pair, strategy failure) pass through untouched
// for the handler to classify.
func (s *ConversionService) Convert(ctx context.Context, userID, content, inputMode, outputMode string) (*convert.Result, error) {
	tr := otel.Tracer("services/ConversionService")
	ctx, span := tr.Start(ctx, "Convert",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("conversion.input_mode", inputMode),
			attribute.String("conversion.output_mode", outputMode),
		),
	)
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	res, err := s.Router.Convert(ctx, content, modes.Mode(inputMode), modes.Mode(outputMode))
	if err != nil {
		return nil, err
	}

	s.record(ctx, userID, res, content)
	return res, nil
}

// Instant fans content out to every mode at once, treating the input as text.
// Each successful branch is recorded in the history; failed branches leave no
// row. Branch failures are reported inside the Fanout, never as a top-level
// error.
func (s *ConversionService) Instant(ctx context.Context, userID, content string) (*convert.Fanout, error) {
	tr := otel.Tracer("services/ConversionService")
	ctx, span := tr.Start(ctx, "Instant",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	fan := s.Router.ConvertAll(ctx, content)
	for _, target := range modes.All() {
		if out := fan.Outcomes[target]; out.Err == nil && out.Result != nil {
			s.record(ctx, userID, out.Result, content)
		}
	}
	return fan, nil
}

// History returns a page of the user's recorded conversions, newest first,
// together with the total row count.
func (s *ConversionService) History(ctx context.Context, userID string, page, limit int) ([]domain.Conversion, int64, error) {
	tr := otel.Tracer("services/ConversionService")
	ctx, span := tr.Start(ctx, "History",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("limit", limit),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	total, err := repo.CountConversions(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Conversion{}, 0, nil
	}

	items, err := repo.ListConversionsPage(ctx, s.DB, userID, offset, limit)
	return items, total, err
}

// record appends one history row; failures are logged, never surfaced.
func (s *ConversionService) record(ctx context.Context, userID string, res *convert.Result, input string) {
	_, err := repo.CreateConversion(ctx, s.DB, userID,
		res.InputMode.String(), res.OutputMode.String(),
		input, res.Content, res.ProcessingTime)
	if err != nil {
		log.Warn().
			Err(err).
			Str("user_id", userID).
			Str("input_mode", res.InputMode.String()).
			Str("output_mode", res.OutputMode.String()).
			Msg("conversion history write failed")
	}
}
