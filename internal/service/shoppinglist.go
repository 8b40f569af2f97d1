package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// CartIngredientRow is one ingredient-amount row of a recipe in a user's
// shopping cart, joined with its catalog entry.
type CartIngredientRow struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingListStore resolves the ingredient-amount rows of every recipe in
// a user's shopping cart.
type ShoppingListStore interface {
	CartIngredients(ctx context.Context, userID uuid.UUID) ([]CartIngredientRow, error)
}

// ShoppingListItem is one aggregated line of the shopping list.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int    `json:"total_amount"`
}

// ShoppingListService turns a user's shopping cart into an aggregated,
// deduplicated ingredient list.
type ShoppingListService struct {
	store ShoppingListStore
}

func NewShoppingListService(store ShoppingListStore) *ShoppingListService {
	return &ShoppingListService{store: store}
}

// ShoppingList aggregates the ingredients of every recipe in the user's
// cart. Rows are grouped by (name, measurement unit) rather than by
// ingredient id, amounts are summed per group, and the result is ordered
// by name ascending. An empty result is an error, not an empty list.
func (s *ShoppingListService) ShoppingList(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	rows, err := s.store.CartIngredients(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect cart ingredients: %w", err)
	}

	type key struct {
		name string
		unit string
	}
	totals := make(map[key]int, len(rows))
	for _, row := range rows {
		totals[key{row.Name, row.MeasurementUnit}] += row.Amount
	}

	if len(totals) == 0 {
		return nil, ErrEmptyShoppingList
	}

	items := make([]ShoppingListItem, 0, len(totals))
	for k, total := range totals {
		items = append(items, ShoppingListItem{
			Name:            k.name,
			MeasurementUnit: k.unit,
			TotalAmount:     total,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	return items, nil
}

// RenderText renders the aggregated list as a plain-text document with one
// line per ingredient, the format offered for download.
func RenderText(items []ShoppingListItem) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s (%s) - %d", item.Name, item.MeasurementUnit, item.TotalAmount)
	}
	return b.String()
}
