package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Linon419/crypto-metrics-dashboard-sub000/internal/metrics"
	apperrors "github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/app/errors"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/market"
	"github.com/Linon419/crypto-metrics-dashboard-sub000/pkg/marketstore"
)

// Extractor turns raw free-form notes into a structured snapshot
// candidate. Defined here so the ingestion service stays decoupled
// from the LLM client implementation.
type Extractor interface {
	Extract(ctx context.Context, rawText string) (*market.Snapshot, error)
}

// Result is the caller-facing summary of one ingestion. Success is
// always true on a returned result; failed batches surface as errors
// instead. Partial per-coin failures show up only in the counts.
type Result struct {
	Success   bool         `json:"success"`
	Date      string       `json:"date"`
	Processed *BatchResult `json:"processed"`
}

// Service drives the ingestion pipeline: annotate the raw text,
// extract a candidate snapshot, normalize its date, validate the
// batch shape, then reconcile into storage.
type Service struct {
	extractor  Extractor
	reconciler *Reconciler
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures optional service behaviour.
type Option func(*Service)

// WithClock overrides the time source, primarily for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an ingestion service.
func NewService(extractor Extractor, store marketstore.Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		extractor:  extractor,
		reconciler: NewReconciler(store, logger),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestRawText runs the full pipeline on free-form notes. Extraction
// and validation failures abort the whole batch; per-coin persistence
// failures do not.
func (s *Service) IngestRawText(ctx context.Context, rawText string) (*Result, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, apperrors.BadRequestError(nil, "rawData is required")
	}

	batchID := uuid.NewString()
	now := s.now()
	start := now

	annotated := AnnotateShortDate(rawText, now)

	snapshot, err := s.extractor.Extract(ctx, annotated)
	if err != nil {
		metrics.IngestionBatches.WithLabelValues("extraction_failed").Inc()
		s.logger.Error("text extraction failed",
			zap.String("batch_id", batchID),
			zap.Error(err),
		)
		return nil, apperrors.DependencyError(err, "text extraction failed: "+err.Error())
	}

	// The token in the original text outranks whatever the extractor
	// decided; the annotated copy is only an extraction hint.
	snapshot.Date = NormalizeDate(rawText, snapshot.Date, now)

	result, err := s.ingest(ctx, batchID, snapshot)
	if err != nil {
		return nil, err
	}

	metrics.IngestionDuration.Observe(time.Since(start).Seconds())
	return result, nil
}

// IngestSnapshot persists a pre-built snapshot, bypassing the
// extractor. Used by the debug input route and by tests. A missing
// date falls back to the current date instead of failing.
func (s *Service) IngestSnapshot(ctx context.Context, snapshot *market.Snapshot) (*Result, error) {
	if snapshot != nil && snapshot.Date == "" {
		snapshot.Date = s.now().Format(DateFormat)
	}
	return s.ingest(ctx, uuid.NewString(), snapshot)
}

func (s *Service) ingest(ctx context.Context, batchID string, snapshot *market.Snapshot) (*Result, error) {
	if err := ValidateSnapshot(snapshot); err != nil {
		metrics.IngestionBatches.WithLabelValues("rejected").Inc()
		return nil, err
	}

	s.logger.Info("reconciling snapshot",
		zap.String("batch_id", batchID),
		zap.String("date", snapshot.Date),
		zap.Int("coins", len(snapshot.Coins)),
		zap.Bool("liquidity", snapshot.Liquidity != nil),
		zap.Int("trending", len(snapshot.TrendingCoins)),
	)

	batch := s.reconciler.Apply(ctx, snapshot.Date, snapshot)

	metrics.IngestionBatches.WithLabelValues("completed").Inc()
	s.logger.Info("snapshot reconciled",
		zap.String("batch_id", batchID),
		zap.String("date", snapshot.Date),
		zap.Int("coins_written", len(batch.Coins)),
		zap.Int("coins_skipped", len(snapshot.Coins)-len(batch.Coins)),
	)

	return &Result{Success: true, Date: snapshot.Date, Processed: batch}, nil
}
