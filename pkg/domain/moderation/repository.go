package moderation

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockery --name=LogRepository --dir=. --output=./mocks --filename=log_repository_mock.go --case=underscore --with-expecter

// LogRepository is the append-only store for moderation audit records. Each
// Append is an independent insert; implementations must not read-modify-write.
type LogRepository interface {
	Append(ctx context.Context, log *Log) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Log, error)
	ListByContent(ctx context.Context, contentType ContentType, contentID uuid.UUID) ([]*Log, error)
	ListByCommunity(ctx context.Context, communityID uuid.UUID, limit int) ([]*Log, error)
}
