package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fuega-ai/fuega/pkg/common"
	domain "github.com/fuega-ai/fuega/pkg/domain/moderation"
	"github.com/fuega-ai/fuega/pkg/infra/cache"
	"github.com/fuega-ai/fuega/pkg/infra/cache/event"
	"github.com/fuega-ai/fuega/pkg/infra/prometheus"
	"github.com/fuega-ai/fuega/pkg/infra/telemetry"
	"github.com/fuega-ai/fuega/pkg/moderation/legacy"
	"github.com/fuega-ai/fuega/pkg/moderation/pipeline"
	"github.com/fuega-ai/fuega/pkg/version"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrAuditLogWrite wraps audit write failures. The moderation result itself
// is still valid when this error is returned; callers retry or alert on the
// logging side without re-moderating.
var ErrAuditLogWrite = errors.New("failed to write moderation audit log")

// sideEffectTimeout bounds the detached export/publish work so a stalled
// broker cannot hold goroutines forever.
const sideEffectTimeout = 10 * time.Second

//go:generate mockery --name=Service --dir=. --output=./mocks --filename=moderation_service_mock.go --case=underscore --with-expecter

type Service interface {
	Moderate(ctx context.Context, req ModerateRequest) (*Outcome, error)
}

// ModerateRequest carries one content create/edit through moderation.
type ModerateRequest struct {
	Input     domain.Input
	Community domain.CommunityContext
	ContentID uuid.UUID
	AuthorID  uuid.UUID
}

// Outcome pairs the legacy-shaped decision with the full tier trail and the
// audit record ids written for it.
type Outcome struct {
	Decision legacy.Decision
	Result   *domain.PipelineResult
	LogIDs   []uuid.UUID
}

type service struct {
	pipeline       *pipeline.Pipeline
	logs           domain.LogRepository
	publisher      cache.EventPublisher
	exporter       telemetry.Exporter
	metricsEnabled bool
	logger         *logrus.Logger
}

func NewService(
	logger *logrus.Logger,
	p *pipeline.Pipeline,
	logs domain.LogRepository,
	publisher cache.EventPublisher,
	exporter telemetry.Exporter,
	metricsEnabled bool,
) Service {
	info := version.GetInfo()
	logger.WithFields(logrus.Fields{
		"app_name": info.AppName,
		"version":  info.Version,
	}).Debug("moderation service initialized")
	return &service{
		pipeline:       p,
		logs:           logs,
		publisher:      publisher,
		exporter:       exporter,
		metricsEnabled: metricsEnabled,
		logger:         logger,
	}
}

// Moderate runs the pipeline and persists the audit trail. The returned
// Outcome is always valid when err is nil OR errors.Is(err, ErrAuditLogWrite):
// a failed audit write must not discard an already-computed decision, it is
// surfaced alongside it.
func (s *service) Moderate(ctx context.Context, req ModerateRequest) (*Outcome, error) {
	result := s.pipeline.Run(ctx, req.Input, req.Community)

	outcome := &Outcome{
		Decision: legacy.FromPipelineResult(result),
		Result:   result,
	}

	var logErrs []error
	var written []writtenLog
	for _, td := range result.TierDecisions {
		row := domain.NewLog(req.Input.ContentType, req.ContentID, req.Community.CommunityID, req.AuthorID, td)
		id, err := s.logs.Append(ctx, row)
		if err != nil {
			// Removed/flagged decisions must never go unlogged silently;
			// collect the failure and surface it to the caller.
			s.logger.WithError(err).WithFields(logrus.Fields{
				"trace_id":    common.TraceIdFromContext(ctx),
				"content_id":  req.ContentID,
				"agent_level": td.AgentLevel,
				"decision":    td.Decision,
			}).Error("audit log write failed")
			if s.metricsEnabled {
				prometheus.ModerationLogFailures.Inc()
			}
			logErrs = append(logErrs, err)
			continue
		}
		outcome.LogIDs = append(outcome.LogIDs, id)
		written = append(written, writtenLog{row: row, td: td})
	}

	s.dispatchSideEffects(req, result, written)
	s.recordMetrics(req, result)

	if len(logErrs) > 0 {
		return outcome, fmt.Errorf("%w: %d of %d records failed: %v",
			ErrAuditLogWrite, len(logErrs), len(result.TierDecisions), errors.Join(logErrs...))
	}
	return outcome, nil
}

type writtenLog struct {
	row *domain.Log
	td  domain.TierDecision
}

// dispatchSideEffects ships exports, per-row events and the run summary off
// the request path. The classifier is the only I/O the synchronous run may
// wait on; a stalled broker or redis must not stall moderation. The work gets
// its own bounded context rather than the request's, since a fire-and-forget
// side effect has to survive the originating request returning.
func (s *service) dispatchSideEffects(req ModerateRequest, result *domain.PipelineResult, written []writtenLog) {
	if s.exporter == nil && s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		for _, w := range written {
			s.export(ctx, w.row)
			s.publishLogEvent(ctx, req, w.row.ID, w.td)
		}
		s.publishEvent(ctx, req, result)
	}()
}

// export ships the audit row to the external firehose. Best effort.
func (s *service) export(ctx context.Context, row *domain.Log) {
	if s.exporter == nil {
		return
	}
	if err := s.exporter.Handle(ctx, row); err != nil {
		s.logger.WithError(err).Warn("moderation log export failed")
	}
}

func (s *service) publishLogEvent(ctx context.Context, req ModerateRequest, logID uuid.UUID, td domain.TierDecision) {
	if s.publisher == nil {
		return
	}
	ev := event.DecisionLoggedEvent{
		LogID:       logID,
		ContentID:   req.ContentID,
		CommunityID: req.Community.CommunityID,
		AgentLevel:  td.AgentLevel,
		Decision:    td.Decision,
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.WithError(err).Warn("failed to publish decision logged event")
	}
}

// publishEvent notifies downstream consumers after the result is computed.
// Fire and forget: errors are logged and swallowed, never failing the
// originating request.
func (s *service) publishEvent(ctx context.Context, req ModerateRequest, result *domain.PipelineResult) {
	if s.publisher == nil {
		return
	}
	ev := event.ContentModeratedEvent{
		ContentType:   req.Input.ContentType,
		ContentID:     req.ContentID,
		CommunityID:   req.Community.CommunityID,
		AuthorID:      req.AuthorID,
		FinalDecision: result.FinalDecision,
		StoppedAtTier: result.StoppedAtTier,
		TiersRun:      len(result.TierDecisions),
		TotalTimeMs:   result.TotalTimeMs,
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.WithError(err).Warn("failed to publish moderation event")
	}
}

func (s *service) recordMetrics(req ModerateRequest, result *domain.PipelineResult) {
	if !s.metricsEnabled {
		return
	}
	communityID := req.Community.CommunityID.String()

	prometheus.ModerationRunsTotal.WithLabelValues(
		communityID,
		string(req.Input.ContentType),
		string(result.FinalDecision),
		string(result.StoppedAtTier),
	).Inc()
	prometheus.ModerationPipelineLatency.WithLabelValues(communityID).
		Observe(float64(result.TotalTimeMs))

	injectionSeen := false
	for _, td := range result.TierDecisions {
		prometheus.ModerationTierLatency.WithLabelValues(communityID, string(td.AgentLevel)).
			Observe(float64(td.ProcessingTimeMs))
		if td.AIModel == "" {
			prometheus.ModerationFallbackTotal.WithLabelValues(communityID, string(td.AgentLevel)).Inc()
		}
		if td.InjectionDetected {
			injectionSeen = true
		}
	}
	if injectionSeen {
		prometheus.ModerationInjectionTotal.WithLabelValues(communityID, string(req.Input.ContentType)).Inc()
	}
}
