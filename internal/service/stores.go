package service

import (
	"context"

	"github.com/promptgate/promptgate-go/internal/model"
)

// UserStore persists user accounts. Create also seeds the user's quota row.
type UserStore interface {
	Create(ctx context.Context, user *model.User, initialCalls int) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateUsername(ctx context.Context, id int64, username string) error
	Delete(ctx context.Context, id int64) error
}

// QuotaStore persists remaining API calls. Get and Decrement create a missing
// row with seed.
type QuotaStore interface {
	Get(ctx context.Context, userID int64, seed int) (int, error)
	Decrement(ctx context.Context, userID int64, seed int) (int, error)
	Initialize(ctx context.Context, userID int64, count int) error
}

// UsageStore persists per-endpoint request counters.
type UsageStore interface {
	RecordHit(ctx context.Context, endpoint, method string) error
	List(ctx context.Context) ([]model.UsageRecord, error)
}

// TextGenerator produces text for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
