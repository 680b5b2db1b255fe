package entity

import (
	"time"
)

// Category name constraints.
const (
	CategoryNameMaxLength = 50
)

// Category represents an expense category owned by a user.
type Category struct {
	ID        int64
	UserID    int64
	Name      string
	Icon      string
	Color     string // Hex format: #RRGGBB
	CreatedAt time.Time
}

// NewCategory creates a new Category entity.
func NewCategory(userID int64, name, icon, color string) *Category {
	return &Category{
		UserID:    userID,
		Name:      name,
		Icon:      icon,
		Color:     color,
		CreatedAt: time.Now().UTC(),
	}
}

// DefaultCategory describes a category seeded for every new user.
type DefaultCategory struct {
	Name  string
	Icon  string
	Color string
}

// DefaultCategories is the set of categories created on registration.
var DefaultCategories = []DefaultCategory{
	{Name: "餐饮", Icon: "🍽️", Color: "#EF4444"},
	{Name: "交通", Icon: "🚗", Color: "#3B82F6"},
	{Name: "购物", Icon: "🛍️", Color: "#8B5CF6"},
	{Name: "娱乐", Icon: "🎮", Color: "#F59E0B"},
	{Name: "医疗", Icon: "🏥", Color: "#10B981"},
	{Name: "教育", Icon: "📚", Color: "#6366F1"},
	{Name: "住房", Icon: "🏠", Color: "#84CC16"},
	{Name: "其他", Icon: "💰", Color: "#6B7280"},
}
