package moderation

import (
	"fmt"
	"time"

	"github.com/fuega-ai/fuega/pkg/config"
	"github.com/fuega-ai/fuega/pkg/infra/cache"
	"github.com/fuega-ai/fuega/pkg/infra/classifier"
	"github.com/fuega-ai/fuega/pkg/infra/classifier/factory"
	"github.com/fuega-ai/fuega/pkg/infra/prometheus"
	"github.com/fuega-ai/fuega/pkg/infra/repository"
	"github.com/fuega-ai/fuega/pkg/infra/telemetry"
	"github.com/fuega-ai/fuega/pkg/infra/telemetry/kafka"
	"github.com/fuega-ai/fuega/pkg/moderation/agent"
	"github.com/fuega-ai/fuega/pkg/moderation/pipeline"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// NewServiceFromConfig wires the full moderation stack from configuration:
// classifier provider → policy agent → pipeline → audit repository → service.
// The database handle and cache connections belong to the caller; cacheClient
// may be nil when event publishing is not wanted.
func NewServiceFromConfig(
	logger *logrus.Logger,
	cfg *config.Config,
	db *gorm.DB,
	cacheClient cache.Cache,
) (Service, error) {
	client, err := factory.NewProviderLocator().Get(cfg.Moderation.Provider, cfg.Moderation.ApiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve classifier provider: %w", err)
	}

	clientConfig := &classifier.Config{
		Credentials: classifier.Credentials{ApiKey: cfg.Moderation.ApiKey},
		Model:       cfg.Moderation.Model,
		MaxTokens:   cfg.Moderation.MaxTokens,
		Temperature: cfg.Moderation.Temperature,
	}
	timeout := time.Duration(cfg.Moderation.TimeoutSeconds) * time.Second

	policyAgent := agent.NewPolicyAgent(logger, client, clientConfig, timeout)
	p := pipeline.NewPipeline(logger, policyAgent, pipeline.Config{
		PlatformPolicy:        cfg.Moderation.PlatformPolicy,
		PlatformPolicyVersion: cfg.Moderation.PlatformPolicyVersion,
	})

	var publisher cache.EventPublisher
	if cacheClient != nil {
		publisher = cache.NewRedisEventPublisher(cacheClient, cache.ModerationEventsChannel)
	}

	var exporter telemetry.Exporter
	if cfg.Kafka.Enabled {
		exporter, err = kafka.NewKafkaExporter().WithSettings(cfg.Kafka.Settings)
		if err != nil {
			return nil, fmt.Errorf("failed to configure kafka exporter: %w", err)
		}
	}

	if cfg.Metrics.Enabled {
		prometheus.Initialize()
	}

	return NewService(logger, p, repository.NewModerationLogRepository(db), publisher, exporter, cfg.Metrics.Enabled), nil
}
