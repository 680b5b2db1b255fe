package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
)

// openTestDB opens an isolated in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.UserModel{},
		&model.RefreshTokenModel{},
		&model.CategoryModel{},
		&model.ExpenseModel{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *entity.User {
	t.Helper()
	repo := NewUserRepository(db)
	user := entity.NewUser(username, username+"@example.com", "hash")
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, userID int64, name string) *entity.Category {
	t.Helper()
	repo := NewCategoryRepository(db)
	category := entity.NewCategory(userID, name, "🛒", "#3B82F6")
	if err := repo.Create(context.Background(), category); err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return category
}

func seedExpense(t *testing.T, db *gorm.DB, userID, categoryID int64, amount, description string, date time.Time) *entity.Expense {
	t.Helper()
	repo := NewExpenseRepository(db)
	expense := entity.NewExpense(userID, categoryID, decimal.RequireFromString(amount), description, date)
	if err := repo.Create(context.Background(), expense); err != nil {
		t.Fatalf("failed to seed expense: %v", err)
	}
	return expense
}

func TestExpenseRepository_CreateAndFind(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "alice")
	category := seedCategory(t, db, user.ID, "Food")
	repo := NewExpenseRepository(db)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	created := seedExpense(t, db, user.ID, category.ID, "12.34", "Lunch", date)

	t.Run("assigns an ID on create", func(t *testing.T) {
		if created.ID == 0 {
			t.Error("expected assigned ID")
		}
	})

	t.Run("finds by ID scoped to owner", func(t *testing.T) {
		found, err := repo.FindByID(ctx, created.ID, user.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !found.Amount.Equal(decimal.RequireFromString("12.34")) {
			t.Errorf("expected 12.34, got %s", found.Amount)
		}
		if found.Description != "Lunch" {
			t.Errorf("expected Lunch, got %s", found.Description)
		}
	})

	t.Run("other users cannot see the expense", func(t *testing.T) {
		other := seedUser(t, db, "bob")
		_, err := repo.FindByID(ctx, created.ID, other.ID)
		if !errors.Is(err, domainerror.ErrExpenseNotFound) {
			t.Errorf("expected not found, got %v", err)
		}
	})

	t.Run("find with category preloads the join", func(t *testing.T) {
		found, err := repo.FindByIDWithCategory(ctx, created.ID, user.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found.Category == nil || found.Category.Name != "Food" {
			t.Error("expected joined category")
		}
	})
}

func TestExpenseRepository_FindByFilter(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "alice")
	food := seedCategory(t, db, user.ID, "Food")
	transport := seedCategory(t, db, user.ID, "Transport")
	repo := NewExpenseRepository(db)

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	seedExpense(t, db, user.ID, food.ID, "10.00", "Morning coffee", base)
	seedExpense(t, db, user.ID, food.ID, "25.00", "Team lunch", base.AddDate(0, 0, 5))
	seedExpense(t, db, user.ID, transport.ID, "3.50", "Bus ticket", base.AddDate(0, 0, 10))

	page1 := adapter.ExpensePagination{Page: 1, Limit: 10}

	t.Run("no filter returns everything newest first", func(t *testing.T) {
		result, err := repo.FindByFilter(ctx, user.ID, adapter.ExpenseFilter{}, page1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 3 {
			t.Errorf("expected total 3, got %d", result.Total)
		}
		if len(result.Expenses) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(result.Expenses))
		}
		if result.Expenses[0].Expense.Description != "Bus ticket" {
			t.Errorf("expected newest first, got %s", result.Expenses[0].Expense.Description)
		}
	})

	t.Run("filters by category", func(t *testing.T) {
		result, err := repo.FindByFilter(ctx, user.ID, adapter.ExpenseFilter{CategoryID: &food.ID}, page1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 2 {
			t.Errorf("expected 2 food expenses, got %d", result.Total)
		}
	})

	t.Run("filters by date range inclusive", func(t *testing.T) {
		start := base.AddDate(0, 0, 5)
		end := base.AddDate(0, 0, 10)
		result, err := repo.FindByFilter(ctx, user.ID, adapter.ExpenseFilter{StartDate: &start, EndDate: &end}, page1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 2 {
			t.Errorf("expected 2 expenses in range, got %d", result.Total)
		}
	})

	t.Run("filters by amount bounds including zero min", func(t *testing.T) {
		zero := decimal.Zero
		maxAmount := decimal.RequireFromString("10.00")
		result, err := repo.FindByFilter(ctx, user.ID, adapter.ExpenseFilter{MinAmount: &zero, MaxAmount: &maxAmount}, page1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 2 {
			t.Errorf("expected 2 expenses at or below 10.00, got %d", result.Total)
		}
	})

	t.Run("description search is case-insensitive substring", func(t *testing.T) {
		result, err := repo.FindByFilter(ctx, user.ID, adapter.ExpenseFilter{Description: "LUNCH"}, page1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 1 {
			t.Fatalf("expected 1 match, got %d", result.Total)
		}
		if result.Expenses[0].Expense.Description != "Team lunch" {
			t.Errorf("unexpected match: %s", result.Expenses[0].Expense.Description)
		}
	})

	t.Run("another user sees nothing", func(t *testing.T) {
		other := seedUser(t, db, "bob")
		result, err := repo.FindByFilter(ctx, other.ID, adapter.ExpenseFilter{}, page1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Total != 0 {
			t.Errorf("expected empty result, got %d", result.Total)
		}
	})
}

func TestExpenseRepository_Pagination(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "alice")
	category := seedCategory(t, db, user.ID, "Food")
	repo := NewExpenseRepository(db)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		seedExpense(t, db, user.ID, category.ID, "1.00", fmt.Sprintf("expense %02d", i), base.AddDate(0, 0, i))
	}

	t.Run("splits 25 rows into 3 pages of 10", func(t *testing.T) {
		result, err := repo.FindByFilter(ctx, user.ID, adapter.ExpenseFilter{}, adapter.ExpensePagination{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TotalPages != 3 {
			t.Errorf("expected 3 pages, got %d", result.TotalPages)
		}
		if len(result.Expenses) != 10 {
			t.Errorf("expected 10 rows on page 1, got %d", len(result.Expenses))
		}

		last, err := repo.FindByFilter(ctx, user.ID, adapter.ExpenseFilter{}, adapter.ExpensePagination{Page: 3, Limit: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(last.Expenses) != 5 {
			t.Errorf("expected 5 rows on page 3, got %d", len(last.Expenses))
		}
	})

	t.Run("page beyond range is empty, not an error", func(t *testing.T) {
		result, err := repo.FindByFilter(ctx, user.ID, adapter.ExpenseFilter{}, adapter.ExpensePagination{Page: 9, Limit: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Expenses) != 0 {
			t.Errorf("expected empty page, got %d rows", len(result.Expenses))
		}
		if result.Total != 25 {
			t.Errorf("expected total still 25, got %d", result.Total)
		}
	})

	t.Run("empty result has zero pages", func(t *testing.T) {
		other := seedUser(t, db, "bob")
		result, err := repo.FindByFilter(ctx, other.ID, adapter.ExpenseFilter{}, adapter.ExpensePagination{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TotalPages != 0 {
			t.Errorf("expected 0 pages for empty result, got %d", result.TotalPages)
		}
	})
}

func TestExpenseRepository_Aggregation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "alice")
	category := seedCategory(t, db, user.ID, "Food")
	repo := NewExpenseRepository(db)

	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	seedExpense(t, db, user.ID, category.ID, "10.00", "One", base)
	seedExpense(t, db, user.ID, category.ID, "15.50", "Two", base.AddDate(0, 0, 1))

	t.Run("aggregation rows carry their categories", func(t *testing.T) {
		rows, err := repo.FindForAggregation(ctx, user.ID, adapter.ExpenseFilter{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
		for _, row := range rows {
			if row.Category == nil || row.Category.Name != "Food" {
				t.Error("expected category on aggregation row")
			}
		}
	})

	t.Run("totals sum amount and count", func(t *testing.T) {
		totals, err := repo.GetTotals(ctx, user.ID, adapter.ExpenseFilter{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !totals.Amount.Equal(decimal.RequireFromString("25.50")) {
			t.Errorf("expected 25.50, got %s", totals.Amount)
		}
		if totals.Count != 2 {
			t.Errorf("expected count 2, got %d", totals.Count)
		}
	})

	t.Run("totals are zero for an empty set", func(t *testing.T) {
		other := seedUser(t, db, "bob")
		totals, err := repo.GetTotals(ctx, other.ID, adapter.ExpenseFilter{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !totals.Amount.IsZero() || totals.Count != 0 {
			t.Errorf("expected zero totals, got %s / %d", totals.Amount, totals.Count)
		}
	})
}

func TestExpenseRepository_UpdateDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "alice")
	category := seedCategory(t, db, user.ID, "Food")
	repo := NewExpenseRepository(db)

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	expense := seedExpense(t, db, user.ID, category.ID, "12.00", "Lunch", date)

	t.Run("update persists new values", func(t *testing.T) {
		expense.Amount = decimal.RequireFromString("14.00")
		expense.Description = "Late lunch"
		expense.UpdatedAt = time.Now().UTC()
		if err := repo.Update(ctx, expense); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		found, err := repo.FindByID(ctx, expense.ID, user.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !found.Amount.Equal(decimal.RequireFromString("14.00")) {
			t.Errorf("expected 14.00, got %s", found.Amount)
		}
		if found.Description != "Late lunch" {
			t.Errorf("expected updated description, got %s", found.Description)
		}
	})

	t.Run("count by category", func(t *testing.T) {
		count, err := repo.CountByCategory(ctx, category.ID, user.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1, got %d", count)
		}
	})

	t.Run("delete removes the row", func(t *testing.T) {
		if err := repo.Delete(ctx, expense.ID, user.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := repo.FindByID(ctx, expense.ID, user.ID); !errors.Is(err, domainerror.ErrExpenseNotFound) {
			t.Errorf("expected not found after delete, got %v", err)
		}
	})
}
