package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fuega-ai/fuega/pkg/domain"
	"github.com/fuega-ai/fuega/pkg/domain/moderation"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ModerationLogRepository struct {
	db *gorm.DB
}

func NewModerationLogRepository(db *gorm.DB) moderation.LogRepository {
	return &ModerationLogRepository{
		db: db,
	}
}

// Append inserts one audit row. Rows are independent inserts: no transaction
// coordination beyond the single statement.
func (r *ModerationLogRepository) Append(ctx context.Context, log *moderation.Log) (uuid.UUID, error) {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return uuid.Nil, fmt.Errorf("failed to append moderation log: %w", err)
	}
	return log.ID, nil
}

func (r *ModerationLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*moderation.Log, error) {
	var log moderation.Log
	if err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("moderation_log", id)
		}
		return nil, fmt.Errorf("failed to get moderation log: %w", err)
	}
	return &log, nil
}

func (r *ModerationLogRepository) ListByContent(
	ctx context.Context,
	contentType moderation.ContentType,
	contentID uuid.UUID,
) ([]*moderation.Log, error) {
	var logs []*moderation.Log
	if err := r.db.WithContext(ctx).
		Where("content_type = ? AND content_id = ?", contentType, contentID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list moderation logs: %w", err)
	}
	return logs, nil
}

func (r *ModerationLogRepository) ListByCommunity(
	ctx context.Context,
	communityID uuid.UUID,
	limit int,
) ([]*moderation.Log, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []*moderation.Log
	if err := r.db.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list moderation logs: %w", err)
	}
	return logs, nil
}
