package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/promptgate/promptgate-go/internal/model"
	"github.com/promptgate/promptgate-go/internal/repository"
)

func TestCreate_DuplicateEmailLeavesFirstUser(t *testing.T) {
	ctx := context.Background()
	users := New().Users()

	first := &model.User{Username: "ada", Email: "ada@example.com"}
	if err := users.Create(ctx, first, 20); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	second := &model.User{Username: "imposter", Email: "ADA@example.com"}
	if err := users.Create(ctx, second, 20); !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("Create() error = %v, want ErrDuplicateEmail", err)
	}

	got, err := users.GetByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() unexpected error: %v", err)
	}
	if got.ID != first.ID || got.Username != "ada" {
		t.Errorf("GetByEmail() = %+v, want first user", got)
	}
}

func TestDelete_CascadesQuota(t *testing.T) {
	ctx := context.Background()
	store := New()

	user := &model.User{Username: "ada", Email: "ada@example.com"}
	if err := store.Users().Create(ctx, user, 20); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if err := store.Usage().RecordHit(ctx, "/api/v1/generate", "POST"); err != nil {
		t.Fatalf("RecordHit() unexpected error: %v", err)
	}

	if err := store.Users().Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}
	if store.Quotas().Has(user.ID) {
		t.Error("quota row survived user deletion")
	}
	records, _ := store.Usage().List(ctx)
	if len(records) != 1 || records[0].Requests != 1 {
		t.Errorf("usage records = %+v, want one untouched record", records)
	}
	if err := store.Users().Delete(ctx, user.ID); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("second Delete() error = %v, want ErrUserNotFound", err)
	}
}

func TestQuota_UnknownUser(t *testing.T) {
	quotas := New().Quotas()

	if _, err := quotas.Get(context.Background(), 404, 20); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("Get() error = %v, want ErrUserNotFound", err)
	}
	if _, err := quotas.Decrement(context.Background(), 404, 19); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("Decrement() error = %v, want ErrUserNotFound", err)
	}
}
