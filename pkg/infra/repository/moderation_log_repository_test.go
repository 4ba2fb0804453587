package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fuega-ai/fuega/pkg/domain"
	"github.com/fuega-ai/fuega/pkg/domain/moderation"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every statement on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&moderation.Log{}))
	return db
}

func tierDecision(level moderation.AgentLevel, decision moderation.Decision) moderation.TierDecision {
	return moderation.TierDecision{
		AgentLevel:       level,
		Decision:         decision,
		Confidence:       0.9,
		Reasoning:        "test reasoning",
		AIModel:          "gpt-4o-mini",
		PromptVersion:    2,
		ProcessingTimeMs: 12,
	}
}

func TestModerationLogRepository_AppendAndListByContent(t *testing.T) {
	repo := NewModerationLogRepository(setupTestDB(t))
	ctx := context.Background()

	contentID := uuid.New()
	communityID := uuid.New()
	authorID := uuid.New()

	first := moderation.NewLog(moderation.ContentTypePost, contentID, communityID, authorID,
		tierDecision(moderation.LevelPlatform, moderation.DecisionApproved))
	second := moderation.NewLog(moderation.ContentTypePost, contentID, communityID, authorID,
		tierDecision(moderation.LevelCommunity, moderation.DecisionRemoved))
	first.CreatedAt = time.Now().Add(-time.Second)

	firstID, err := repo.Append(ctx, first)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, firstID)

	secondID, err := repo.Append(ctx, second)
	require.NoError(t, err)
	assert.NotEqual(t, firstID, secondID)

	rows, err := repo.ListByContent(ctx, moderation.ContentTypePost, contentID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Oldest first, mirroring tier order.
	assert.Equal(t, firstID, rows[0].ID)
	assert.Equal(t, moderation.LevelPlatform, rows[0].AgentLevel)
	assert.Equal(t, secondID, rows[1].ID)
	assert.Equal(t, moderation.DecisionRemoved, rows[1].Decision)
}

func TestModerationLogRepository_AppendAssignsID(t *testing.T) {
	repo := NewModerationLogRepository(setupTestDB(t))

	row := moderation.NewLog(moderation.ContentTypeComment, uuid.New(), uuid.New(), uuid.New(),
		tierDecision(moderation.LevelPlatform, moderation.DecisionApproved))
	row.ID = uuid.Nil

	id, err := repo.Append(context.Background(), row)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, id, row.ID)
}

func TestModerationLogRepository_GetByID(t *testing.T) {
	repo := NewModerationLogRepository(setupTestDB(t))
	ctx := context.Background()

	row := moderation.NewLog(moderation.ContentTypePost, uuid.New(), uuid.New(), uuid.New(),
		tierDecision(moderation.LevelPlatform, moderation.DecisionWarned))
	id, err := repo.Append(ctx, row)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, moderation.DecisionWarned, got.Decision)

	_, err = repo.GetByID(ctx, uuid.New())
	require.Error(t, err)
	assert.True(t, domain.IsNotFoundError(err))
}

func TestModerationLogRepository_InjectionPatternsRoundTrip(t *testing.T) {
	repo := NewModerationLogRepository(setupTestDB(t))
	ctx := context.Background()

	contentID := uuid.New()
	td := tierDecision(moderation.LevelPlatform, moderation.DecisionFlagged)
	td.InjectionDetected = true
	td.InjectionPatterns = []string{"ignore_previous_instructions", "verdict_coercion"}
	row := moderation.NewLog(moderation.ContentTypePost, contentID, uuid.New(), uuid.New(), td)

	_, err := repo.Append(ctx, row)
	require.NoError(t, err)

	rows, err := repo.ListByContent(ctx, moderation.ContentTypePost, contentID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].InjectionDetected)
	assert.Equal(t,
		moderation.PatternsJSON{"ignore_previous_instructions", "verdict_coercion"},
		rows[0].InjectionPatterns)
}

func TestModerationLogRepository_ListByContentFiltersType(t *testing.T) {
	repo := NewModerationLogRepository(setupTestDB(t))
	ctx := context.Background()

	contentID := uuid.New()
	post := moderation.NewLog(moderation.ContentTypePost, contentID, uuid.New(), uuid.New(),
		tierDecision(moderation.LevelPlatform, moderation.DecisionApproved))
	comment := moderation.NewLog(moderation.ContentTypeComment, contentID, uuid.New(), uuid.New(),
		tierDecision(moderation.LevelPlatform, moderation.DecisionApproved))

	_, err := repo.Append(ctx, post)
	require.NoError(t, err)
	_, err = repo.Append(ctx, comment)
	require.NoError(t, err)

	rows, err := repo.ListByContent(ctx, moderation.ContentTypePost, contentID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, moderation.ContentTypePost, rows[0].ContentType)
}

func TestModerationLogRepository_ListByCommunity(t *testing.T) {
	repo := NewModerationLogRepository(setupTestDB(t))
	ctx := context.Background()

	communityID := uuid.New()
	base := time.Now().Add(-time.Minute)
	for i := 0; i < 5; i++ {
		row := moderation.NewLog(moderation.ContentTypePost, uuid.New(), communityID, uuid.New(),
			tierDecision(moderation.LevelCommunity, moderation.DecisionApproved))
		row.CreatedAt = base.Add(time.Duration(i) * time.Second)
		_, err := repo.Append(ctx, row)
		require.NoError(t, err)
	}
	// A row for another community never leaks in.
	other := moderation.NewLog(moderation.ContentTypePost, uuid.New(), uuid.New(), uuid.New(),
		tierDecision(moderation.LevelCommunity, moderation.DecisionApproved))
	_, err := repo.Append(ctx, other)
	require.NoError(t, err)

	rows, err := repo.ListByCommunity(ctx, communityID, 3)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i-1].CreatedAt.Before(rows[i].CreatedAt), "newest first")
	}
}

func TestModerationLogRepository_ListByCommunityDefaultLimit(t *testing.T) {
	repo := NewModerationLogRepository(setupTestDB(t))
	ctx := context.Background()

	communityID := uuid.New()
	rows, err := repo.ListByCommunity(ctx, communityID, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = repo.ListByCommunity(ctx, communityID, 10000)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
