package repositories

import (
	"errors"

	"chatorder/internal/models"
)

// ErrMenuItemNotFound is returned when no catalog entry matches a name.
var ErrMenuItemNotFound = errors.New("menu item not found")

// MenuRepository defines read access to the restaurant catalog.
type MenuRepository interface {
	GetAll() ([]models.MenuItem, error)
	// FindByName matches case-insensitively after trimming surrounding spaces.
	FindByName(name string) (*models.MenuItem, error)
}
