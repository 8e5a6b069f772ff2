package repositories

import (
	"fmt"
	"strings"

	"chatorder/internal/models"
)

// DefaultMenu returns the catalog served when no menu is configured.
func DefaultMenu() []models.MenuItem {
	return []models.MenuItem{
		{ID: "1", Name: "Jollof Rice", Price: 1500},
		{ID: "2", Name: "Grilled Chicken", Price: 2000},
		{ID: "3", Name: "Chapman Cocktail", Price: 1600},
		{ID: "4", Name: "Fried Plantain", Price: 800},
		{ID: "5", Name: "Eba with vegetable soup", Price: 2000},
		{ID: "6", Name: "Scotch Whiskey", Price: 1800},
		{ID: "7", Name: "Rice and stew", Price: 1500},
		{ID: "8", Name: "Bread", Price: 1000},
		{ID: "9", Name: "Nkwobi", Price: 6500},
		{ID: "10", Name: "Amala with ewedu", Price: 2200},
	}
}

// StaticMenuRepository is an immutable, in-memory catalog.
type StaticMenuRepository struct {
	items  []models.MenuItem
	byName map[string]int
}

// NewStaticMenuRepository builds a catalog from items, keeping their order.
// Ids and case-folded names must be unique.
func NewStaticMenuRepository(items []models.MenuItem) (*StaticMenuRepository, error) {
	r := &StaticMenuRepository{
		items:  make([]models.MenuItem, 0, len(items)),
		byName: make(map[string]int, len(items)),
	}
	ids := make(map[string]struct{}, len(items))

	for _, item := range items {
		key := menuKey(item.Name)
		if key == "" {
			return nil, fmt.Errorf("menu item %s has an empty name", item.ID)
		}
		if item.Price < 0 {
			return nil, fmt.Errorf("menu item %q has a negative price", item.Name)
		}
		if _, dup := ids[item.ID]; dup {
			return nil, fmt.Errorf("duplicate menu item id %s", item.ID)
		}
		if _, dup := r.byName[key]; dup {
			return nil, fmt.Errorf("duplicate menu item name %q", item.Name)
		}
		ids[item.ID] = struct{}{}
		r.byName[key] = len(r.items)
		r.items = append(r.items, item)
	}
	return r, nil
}

// GetAll returns a copy of the catalog in display order.
func (r *StaticMenuRepository) GetAll() ([]models.MenuItem, error) {
	out := make([]models.MenuItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

// FindByName returns the catalog entry whose name matches name.
func (r *StaticMenuRepository) FindByName(name string) (*models.MenuItem, error) {
	idx, ok := r.byName[menuKey(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMenuItemNotFound, name)
	}
	item := r.items[idx]
	return &item, nil
}

func menuKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
