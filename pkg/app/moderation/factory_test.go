package moderation

import (
	"context"
	"testing"

	"github.com/fuega-ai/fuega/pkg/config"
	domain "github.com/fuega-ai/fuega/pkg/domain/moderation"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func factoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Log{}))
	return db
}

func TestNewServiceFromConfig(t *testing.T) {
	cfg := &config.Config{
		Moderation: config.ModerationConfig{
			Provider:              "openai",
			Model:                 "gpt-4o-mini",
			ApiKey:                "test-key",
			MaxTokens:             512,
			Temperature:           0.1,
			TimeoutSeconds:        5,
			PlatformPolicy:        "no illegal content",
			PlatformPolicyVersion: 3,
		},
	}

	svc, err := NewServiceFromConfig(logrus.New(), cfg, factoryTestDB(t), nil)

	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestNewServiceFromConfig_UnknownProvider(t *testing.T) {
	cfg := &config.Config{
		Moderation: config.ModerationConfig{Provider: "bedrock"},
	}

	svc, err := NewServiceFromConfig(logrus.New(), cfg, factoryTestDB(t), nil)

	require.Error(t, err)
	assert.Nil(t, svc)
	assert.Contains(t, err.Error(), "classifier provider")
}

func TestNewServiceFromConfig_ModeratesEndToEnd(t *testing.T) {
	// The classifier key is fake, so every tier resolves through the
	// deterministic fallback; the wired repository still records each tier.
	cfg := &config.Config{
		Moderation: config.ModerationConfig{
			Provider:       "openai",
			Model:          "gpt-4o-mini",
			ApiKey:         "test-key",
			TimeoutSeconds: 1,
			PlatformPolicy: "no illegal content",
		},
	}
	db := factoryTestDB(t)

	svc, err := NewServiceFromConfig(logrus.New(), cfg, db, nil)
	require.NoError(t, err)

	outcome, err := svc.Moderate(context.Background(), testModerateRequest())

	require.NoError(t, err)
	require.NotNil(t, outcome)
	require.Len(t, outcome.LogIDs, len(outcome.Result.TierDecisions))

	var count int64
	require.NoError(t, db.Model(&domain.Log{}).Count(&count).Error)
	assert.Equal(t, int64(len(outcome.LogIDs)), count)
}
