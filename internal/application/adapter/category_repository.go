// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create creates a new category in the database.
	Create(ctx context.Context, category *entity.Category) error

	// CreateBatch creates multiple categories in a single operation.
	CreateBatch(ctx context.Context, categories []*entity.Category) error

	// FindByID retrieves a category by its ID, scoped to the owning user.
	FindByID(ctx context.Context, id, userID int64) (*entity.Category, error)

	// FindByUser retrieves all categories for a user ordered by name.
	FindByUser(ctx context.Context, userID int64) ([]*entity.Category, error)

	// Update updates an existing category in the database.
	Update(ctx context.Context, category *entity.Category) error

	// Delete removes a category from the database.
	Delete(ctx context.Context, id, userID int64) error

	// ExistsByNameAndUser checks if the user owns a category with the given name,
	// excluding the category identified by excludeID when non-zero.
	ExistsByNameAndUser(ctx context.Context, name string, userID, excludeID int64) (bool, error)
}
