package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	t.Run("create assigns an ID", func(t *testing.T) {
		user := entity.NewUser("alice", "alice@example.com", "hash")
		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID == 0 {
			t.Error("expected assigned ID")
		}
	})

	t.Run("finds by ID, username and email", func(t *testing.T) {
		user := entity.NewUser("bob", "bob@example.com", "hash")
		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		byID, err := repo.FindByID(ctx, user.ID)
		if err != nil || byID.Username != "bob" {
			t.Errorf("find by ID failed: %v", err)
		}
		byUsername, err := repo.FindByUsername(ctx, "bob")
		if err != nil || byUsername.ID != user.ID {
			t.Errorf("find by username failed: %v", err)
		}
		byEmail, err := repo.FindByEmail(ctx, "bob@example.com")
		if err != nil || byEmail.ID != user.ID {
			t.Errorf("find by email failed: %v", err)
		}
	})

	t.Run("missing users map to the domain sentinel", func(t *testing.T) {
		if _, err := repo.FindByID(ctx, 9999); !errors.Is(err, domainerror.ErrUserNotFound) {
			t.Errorf("expected not found by ID, got %v", err)
		}
		if _, err := repo.FindByUsername(ctx, "nobody"); !errors.Is(err, domainerror.ErrUserNotFound) {
			t.Errorf("expected not found by username, got %v", err)
		}
		if _, err := repo.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, domainerror.ErrUserNotFound) {
			t.Errorf("expected not found by email, got %v", err)
		}
	})

	t.Run("existence checks", func(t *testing.T) {
		user := entity.NewUser("carol", "carol@example.com", "hash")
		if err := repo.Create(ctx, user); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if exists, err := repo.ExistsByUsername(ctx, "carol"); err != nil || !exists {
			t.Errorf("expected username taken, got %v %v", exists, err)
		}
		if exists, err := repo.ExistsByUsername(ctx, "dave"); err != nil || exists {
			t.Errorf("expected username free, got %v %v", exists, err)
		}
		if exists, err := repo.ExistsByEmail(ctx, "carol@example.com"); err != nil || !exists {
			t.Errorf("expected email taken, got %v %v", exists, err)
		}
		if exists, err := repo.ExistsByEmail(ctx, "dave@example.com"); err != nil || exists {
			t.Errorf("expected email free, got %v %v", exists, err)
		}
	})
}
