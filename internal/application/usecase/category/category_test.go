package category

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// memoryCategoryRepo is an in-memory adapter.CategoryRepository for tests.
type memoryCategoryRepo struct {
	categories map[int64]*entity.Category
	nextID     int64
}

func newMemoryCategoryRepo() *memoryCategoryRepo {
	return &memoryCategoryRepo{
		categories: make(map[int64]*entity.Category),
		nextID:     1,
	}
}

func (m *memoryCategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	category.ID = m.nextID
	m.nextID++
	m.categories[category.ID] = category
	return nil
}

func (m *memoryCategoryRepo) CreateBatch(ctx context.Context, categories []*entity.Category) error {
	for _, category := range categories {
		if err := m.Create(ctx, category); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryCategoryRepo) FindByID(ctx context.Context, id, userID int64) (*entity.Category, error) {
	category, ok := m.categories[id]
	if !ok || category.UserID != userID {
		return nil, domainerror.ErrCategoryNotFound
	}
	return category, nil
}

func (m *memoryCategoryRepo) FindByUser(ctx context.Context, userID int64) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, category := range m.categories {
		if category.UserID == userID {
			out = append(out, category)
		}
	}
	return out, nil
}

func (m *memoryCategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *memoryCategoryRepo) Delete(ctx context.Context, id, userID int64) error {
	delete(m.categories, id)
	return nil
}

func (m *memoryCategoryRepo) ExistsByNameAndUser(ctx context.Context, name string, userID, excludeID int64) (bool, error) {
	for _, category := range m.categories {
		if category.UserID == userID && category.Name == name && category.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// countingExpenseRepo reports a fixed expense count per category.
type countingExpenseRepo struct {
	adapter.ExpenseRepository
	counts map[int64]int64
}

func (c *countingExpenseRepo) CountByCategory(ctx context.Context, categoryID, userID int64) (int64, error) {
	return c.counts[categoryID], nil
}

func TestCreateCategoryUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a category", func(t *testing.T) {
		repo := newMemoryCategoryRepo()
		uc := NewCreateCategoryUseCase(repo)

		out, err := uc.Execute(ctx, CreateCategoryInput{UserID: 1, Name: "Books", Icon: "📚", Color: "#6366F1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Category.ID == 0 {
			t.Error("expected assigned category ID")
		}
	})

	t.Run("rejects empty name", func(t *testing.T) {
		uc := NewCreateCategoryUseCase(newMemoryCategoryRepo())

		_, err := uc.Execute(ctx, CreateCategoryInput{UserID: 1})
		var categoryErr *domainerror.CategoryError
		if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeMissingCategoryFields {
			t.Errorf("expected missing fields error, got %v", err)
		}
	})

	t.Run("rejects overlong name counted in runes", func(t *testing.T) {
		uc := NewCreateCategoryUseCase(newMemoryCategoryRepo())

		name := strings.Repeat("类", entity.CategoryNameMaxLength+1)
		_, err := uc.Execute(ctx, CreateCategoryInput{UserID: 1, Name: name})
		var categoryErr *domainerror.CategoryError
		if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeCategoryNameTooLong {
			t.Errorf("expected name too long error, got %v", err)
		}
	})

	t.Run("rejects malformed colors", func(t *testing.T) {
		uc := NewCreateCategoryUseCase(newMemoryCategoryRepo())

		for _, color := range []string{"EF4444", "#EF44", "#GGGGGG", "red"} {
			_, err := uc.Execute(ctx, CreateCategoryInput{UserID: 1, Name: "Books", Color: color})
			var categoryErr *domainerror.CategoryError
			if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeInvalidColorFormat {
				t.Errorf("expected invalid color error for %q, got %v", color, err)
			}
		}
	})

	t.Run("rejects duplicate name for the same user", func(t *testing.T) {
		repo := newMemoryCategoryRepo()
		uc := NewCreateCategoryUseCase(repo)

		if _, err := uc.Execute(ctx, CreateCategoryInput{UserID: 1, Name: "Books"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := uc.Execute(ctx, CreateCategoryInput{UserID: 1, Name: "Books"})
		var categoryErr *domainerror.CategoryError
		if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeCategoryNameExists {
			t.Errorf("expected name exists error, got %v", err)
		}
	})

	t.Run("allows the same name for different users", func(t *testing.T) {
		repo := newMemoryCategoryRepo()
		uc := NewCreateCategoryUseCase(repo)

		if _, err := uc.Execute(ctx, CreateCategoryInput{UserID: 1, Name: "Books"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uc.Execute(ctx, CreateCategoryInput{UserID: 2, Name: "Books"}); err != nil {
			t.Errorf("expected same name allowed for another user, got %v", err)
		}
	})
}

func TestUpdateCategoryUseCase(t *testing.T) {
	ctx := context.Background()

	seed := func() *memoryCategoryRepo {
		repo := newMemoryCategoryRepo()
		repo.categories[1] = &entity.Category{ID: 1, UserID: 1, Name: "Books", Icon: "📚", Color: "#6366F1"}
		repo.categories[2] = &entity.Category{ID: 2, UserID: 1, Name: "Games", Icon: "🎮", Color: "#F59E0B"}
		repo.nextID = 3
		return repo
	}

	t.Run("updates only provided fields", func(t *testing.T) {
		repo := seed()
		uc := NewUpdateCategoryUseCase(repo)

		name := "Literature"
		out, err := uc.Execute(ctx, UpdateCategoryInput{CategoryID: 1, UserID: 1, Name: &name})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Category.Name != "Literature" {
			t.Errorf("expected renamed category, got %s", out.Category.Name)
		}
		if out.Category.Icon != "📚" {
			t.Errorf("expected icon unchanged, got %s", out.Category.Icon)
		}
	})

	t.Run("rejects renaming onto an existing name", func(t *testing.T) {
		uc := NewUpdateCategoryUseCase(seed())

		name := "Games"
		_, err := uc.Execute(ctx, UpdateCategoryInput{CategoryID: 1, UserID: 1, Name: &name})
		var categoryErr *domainerror.CategoryError
		if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeCategoryNameExists {
			t.Errorf("expected name exists error, got %v", err)
		}
	})

	t.Run("keeping the current name is not a conflict", func(t *testing.T) {
		uc := NewUpdateCategoryUseCase(seed())

		name := "Books"
		color := "#10B981"
		if _, err := uc.Execute(ctx, UpdateCategoryInput{CategoryID: 1, UserID: 1, Name: &name, Color: &color}); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("unknown category yields not found", func(t *testing.T) {
		uc := NewUpdateCategoryUseCase(seed())

		name := "Anything"
		_, err := uc.Execute(ctx, UpdateCategoryInput{CategoryID: 99, UserID: 1, Name: &name})
		var categoryErr *domainerror.CategoryError
		if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeCategoryNotFound {
			t.Errorf("expected not found error, got %v", err)
		}
	})
}

func TestDeleteCategoryUseCase(t *testing.T) {
	ctx := context.Background()

	seed := func(expenseCount int64) (*memoryCategoryRepo, *countingExpenseRepo) {
		repo := newMemoryCategoryRepo()
		repo.categories[1] = &entity.Category{ID: 1, UserID: 1, Name: "Books"}
		repo.nextID = 2
		return repo, &countingExpenseRepo{counts: map[int64]int64{1: expenseCount}}
	}

	t.Run("deletes an unused category", func(t *testing.T) {
		repo, expenses := seed(0)
		uc := NewDeleteCategoryUseCase(repo, expenses)

		out, err := uc.Execute(ctx, DeleteCategoryInput{CategoryID: 1, UserID: 1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.Success {
			t.Error("expected success")
		}
		if _, ok := repo.categories[1]; ok {
			t.Error("expected category removed")
		}
	})

	t.Run("refuses to delete a referenced category", func(t *testing.T) {
		repo, expenses := seed(3)
		uc := NewDeleteCategoryUseCase(repo, expenses)

		_, err := uc.Execute(ctx, DeleteCategoryInput{CategoryID: 1, UserID: 1})
		var categoryErr *domainerror.CategoryError
		if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeCategoryInUse {
			t.Errorf("expected in use error, got %v", err)
		}
		if _, ok := repo.categories[1]; !ok {
			t.Error("expected category to survive")
		}
	})

	t.Run("unknown category yields not found", func(t *testing.T) {
		repo, expenses := seed(0)
		uc := NewDeleteCategoryUseCase(repo, expenses)

		_, err := uc.Execute(ctx, DeleteCategoryInput{CategoryID: 99, UserID: 1})
		var categoryErr *domainerror.CategoryError
		if !errors.As(err, &categoryErr) || categoryErr.Code != domainerror.ErrCodeCategoryNotFound {
			t.Errorf("expected not found error, got %v", err)
		}
	})
}
