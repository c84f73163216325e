package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"

	"github.com/yungbote/healx-backend/internal/data/repos"
	types "github.com/yungbote/healx-backend/internal/domain"
	"github.com/yungbote/healx-backend/internal/domain/errs"
	"github.com/yungbote/healx-backend/internal/observability"
	"github.com/yungbote/healx-backend/internal/platform/dbctx"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

const (
	DefaultMaxBatchSize = 10000
	maxSourceNameLen    = 100
)

type SkipReason string

const (
	SkipUnknownMetric SkipReason = "unknown_metric"
	SkipMissingValue  SkipReason = "missing_value"
)

const WarnOutOfReferenceRange = "out_of_reference_range"

type ObservationRecord struct {
	MetricCode   string           `json:"metric_code"`
	RecordedAt   time.Time        `json:"recorded_at"`
	ValueNumeric *decimal.Decimal `json:"value_numeric,omitempty"`
	ValueText    *string          `json:"value_text,omitempty"`
	RawMetadata  json.RawMessage  `json:"raw_metadata,omitempty"`
}

type IngestRequest struct {
	UserID     uuid.UUID
	SourceName string
	Records    []ObservationRecord
}

type SkippedRecord struct {
	Index      int        `json:"index"`
	MetricCode string     `json:"metric_code"`
	Reason     SkipReason `json:"reason"`
}

type RecordWarning struct {
	Index      int    `json:"index"`
	MetricCode string `json:"metric_code"`
	Reason     string `json:"reason"`
}

// IngestReport satisfies Processed + len(Skipped) == number of submitted records.
type IngestReport struct {
	SourceID              int64           `json:"source_id"`
	Processed             int             `json:"processed"`
	Skipped               []SkippedRecord `json:"skipped"`
	SkippedUnknownMetrics []string        `json:"skipped_unknown_metrics"`
	Warnings              []RecordWarning `json:"warnings"`
}

type IngestionService interface {
	Ingest(ctx context.Context, req IngestRequest) (*IngestReport, error)
}

type ingestionService struct {
	log          *logger.Logger
	metrics      *observability.Metrics
	txRunner     repos.TxRunner
	registry     MetricRegistry
	sources      SourceService
	observations repos.ObservationRepo
	maxBatch     int
	now          func() time.Time
}

func NewIngestionService(
	log *logger.Logger,
	metrics *observability.Metrics,
	txRunner repos.TxRunner,
	registry MetricRegistry,
	sources SourceService,
	observations repos.ObservationRepo,
	maxBatch int,
) IngestionService {
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatchSize
	}
	return &ingestionService{
		log:          log.With("service", "IngestionService"),
		metrics:      metrics,
		txRunner:     txRunner,
		registry:     registry,
		sources:      sources,
		observations: observations,
		maxBatch:     maxBatch,
		now:          time.Now,
	}
}

func (s *ingestionService) Ingest(ctx context.Context, req IngestRequest) (*IngestReport, error) {
	start := s.now()
	ctx, span := observability.StartSpan(ctx, "ingest.batch",
		attribute.Int("healx.records", len(req.Records)),
	)
	defer span.End()

	report, err := s.ingest(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveIngest("error", 0, nil, 0, s.now().Sub(start))
		s.log.Warn("ingest batch failed",
			"user_id", req.UserID.String(),
			"source_name", req.SourceName,
			"records", len(req.Records),
			"code", string(errs.CodeOf(err)),
			"error", err,
		)
		return nil, err
	}

	skippedByReason := map[string]int{}
	for _, sk := range report.Skipped {
		skippedByReason[string(sk.Reason)]++
	}
	s.metrics.ObserveIngest("success", report.Processed, skippedByReason, len(report.Warnings), s.now().Sub(start))
	s.log.Info("ingest batch committed",
		"user_id", req.UserID.String(),
		"source_id", report.SourceID,
		"processed", report.Processed,
		"skipped", len(report.Skipped),
		"warnings", len(report.Warnings),
	)
	return report, nil
}

func (s *ingestionService) ingest(ctx context.Context, req IngestRequest) (*IngestReport, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	source, err := s.sources.Resolve(ctx, req.SourceName)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(req.Records))
	for _, rec := range req.Records {
		codes = append(codes, strings.TrimSpace(rec.MetricCode))
	}
	resolved, _, err := s.registry.Resolve(ctx, codes)
	if err != nil {
		return nil, err
	}

	report := &IngestReport{
		SourceID:              source.ID,
		Skipped:               []SkippedRecord{},
		SkippedUnknownMetrics: []string{},
		Warnings:              []RecordWarning{},
	}
	ingestedAt := s.now().UTC()
	accepted := make([]*types.Observation, 0, len(req.Records))
	seenUnknown := map[string]struct{}{}

	for i, rec := range req.Records {
		code := strings.TrimSpace(rec.MetricCode)
		def, ok := resolved[code]
		if !ok {
			report.Skipped = append(report.Skipped, SkippedRecord{Index: i, MetricCode: code, Reason: SkipUnknownMetric})
			if _, dup := seenUnknown[code]; !dup {
				seenUnknown[code] = struct{}{}
				report.SkippedUnknownMetrics = append(report.SkippedUnknownMetrics, code)
			}
			continue
		}
		if rec.ValueNumeric == nil && rec.ValueText == nil {
			report.Skipped = append(report.Skipped, SkippedRecord{Index: i, MetricCode: code, Reason: SkipMissingValue})
			continue
		}

		obs := &types.Observation{
			UserID:     req.UserID,
			MetricID:   def.ID,
			SourceID:   &source.ID,
			RecordedAt: rec.RecordedAt.UTC(),
			IngestedAt: ingestedAt,
		}
		// Numeric wins when both are present; the text is dropped.
		if rec.ValueNumeric != nil {
			obs.ValueNumeric = decimal.NewNullDecimal(*rec.ValueNumeric)
			if !source.IsTrusted && !def.InRange(*rec.ValueNumeric) {
				report.Warnings = append(report.Warnings, RecordWarning{Index: i, MetricCode: code, Reason: WarnOutOfReferenceRange})
			}
		} else {
			text := *rec.ValueText
			obs.ValueText = &text
		}
		if len(rec.RawMetadata) > 0 && string(rec.RawMetadata) != "null" {
			obs.RawMetadata = datatypes.JSON(rec.RawMetadata)
		}
		accepted = append(accepted, obs)
	}

	if len(accepted) > 0 {
		err := s.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
			_, err := s.observations.Create(dbc.Ctx, dbc.Tx, accepted)
			return err
		})
		if err != nil {
			return nil, commitError(err)
		}
	}
	report.Processed = len(accepted)
	return report, nil
}

func (s *ingestionService) validate(req IngestRequest) error {
	const op = "ingest.validate"
	if req.UserID == uuid.Nil {
		return errs.Validation(op, "user id is required")
	}
	name := strings.TrimSpace(req.SourceName)
	if name == "" {
		return errs.Validation(op, "source_name is required")
	}
	if len(name) > maxSourceNameLen {
		return errs.Validation(op, "source_name must be at most %d characters", maxSourceNameLen)
	}
	if len(req.Records) > s.maxBatch {
		return errs.Validation(op, "batch has %d records; the limit is %d", len(req.Records), s.maxBatch)
	}
	for i, rec := range req.Records {
		if rec.RecordedAt.IsZero() {
			return errs.Validation(op, "records[%d].recorded_at is required", i)
		}
	}
	return nil
}

// commitError collapses a failed batch write. An unknown user surfaces as a
// precondition failure; everything else is a storage outage.
func commitError(err error) error {
	const op = "ingest.commit"
	mapped := repos.MapError(op, err)
	if errs.IsCode(mapped, errs.CodePreconditionFailed) {
		return mapped
	}
	return errs.Wrap(errs.CodeStorageUnavailable, op, err)
}
