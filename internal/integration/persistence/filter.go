// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/expense-tracker/backend/internal/application/adapter"
)

// predicate is one rendered WHERE fragment with its positional arguments.
type predicate struct {
	fragment string
	args     []interface{}
}

// ExpenseQuery accumulates typed predicates for filtering expense rows.
// The user scope is always the first predicate, and fragment order stays
// synchronized with parameter order by construction.
type ExpenseQuery struct {
	predicates []predicate
}

// NewExpenseQuery starts a query scoped to one user.
func NewExpenseQuery(userID int64) *ExpenseQuery {
	q := &ExpenseQuery{}
	q.add("user_id = ?", userID)
	return q
}

func (q *ExpenseQuery) add(fragment string, args ...interface{}) {
	q.predicates = append(q.predicates, predicate{fragment: fragment, args: args})
}

// ApplyFilter appends predicates for every present filter field.
// Presence is decided by pointer-nil (or non-empty for the description),
// so a zero-valued bound such as a min amount of 0 is still applied.
func (q *ExpenseQuery) ApplyFilter(filter adapter.ExpenseFilter) *ExpenseQuery {
	if filter.StartDate != nil {
		q.add("expense_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q.add("expense_date <= ?", *filter.EndDate)
	}
	if filter.CategoryID != nil {
		q.add("category_id = ?", *filter.CategoryID)
	}
	if filter.MinAmount != nil {
		q.add("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		q.add("amount <= ?", *filter.MaxAmount)
	}
	if filter.Description != "" {
		q.add("LOWER(description) LIKE ?", "%"+strings.ToLower(filter.Description)+"%")
	}
	return q
}

// Fragments returns the ordered WHERE fragments.
func (q *ExpenseQuery) Fragments() []string {
	fragments := make([]string, len(q.predicates))
	for i, p := range q.predicates {
		fragments[i] = p.fragment
	}
	return fragments
}

// Params returns the parameters in fragment order.
func (q *ExpenseQuery) Params() []interface{} {
	var params []interface{}
	for _, p := range q.predicates {
		params = append(params, p.args...)
	}
	return params
}

// Where renders the full conjunction and its parameter list.
func (q *ExpenseQuery) Where() (string, []interface{}) {
	return strings.Join(q.Fragments(), " AND "), q.Params()
}

// Scope applies the accumulated predicates to a gorm query.
func (q *ExpenseQuery) Scope(db *gorm.DB) *gorm.DB {
	clause, params := q.Where()
	return db.Where(clause, params...)
}
