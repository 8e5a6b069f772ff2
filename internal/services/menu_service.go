package services

import (
	"fmt"
	"strings"

	"chatorder/internal/models"
	"chatorder/internal/repositories"
)

// MenuService renders the catalog for the chat channel.
type MenuService struct {
	repo repositories.MenuRepository
}

// NewMenuService creates a new MenuService.
func NewMenuService(repo repositories.MenuRepository) *MenuService {
	return &MenuService{
		repo: repo,
	}
}

// Items returns the catalog in display order.
func (s *MenuService) Items() ([]models.MenuItem, error) {
	return s.repo.GetAll()
}

// FindItem looks up a catalog entry by case-insensitive name.
func (s *MenuService) FindItem(name string) (*models.MenuItem, bool) {
	item, err := s.repo.FindByName(name)
	if err != nil {
		return nil, false
	}
	return item, true
}

// PriceOf returns the catalog price of name, or 0 when name is not on the menu.
func (s *MenuService) PriceOf(name string) int64 {
	item, ok := s.FindItem(name)
	if !ok {
		return 0
	}
	return item.Price
}

// MenuText renders one "<id> - <name>  (₦<price>)" line per item.
func (s *MenuService) MenuText() string {
	items, err := s.repo.GetAll()
	if err != nil || len(items) == 0 {
		return "The menu is not available right now."
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s - %s  (₦%d)", item.ID, item.Name, item.Price))
	}
	return strings.Join(lines, "\n")
}

// WelcomeText is the greeting listing every chat command.
func (s *MenuService) WelcomeText() string {
	return strings.Join([]string{
		"👋 Welcome to Niyi's Restaurant Chatbot!",
		"How can I help you today?",
		"",
		"📋 Available Commands:",
		"1️⃣  View our menu",
		"9️⃣9️⃣  Checkout",
		"9️⃣8️⃣  View order history",
		"9️⃣7️⃣  View current order",
		"0️⃣  Cancel order",
		"",
		"🍽️ Just type a dish name to start ordering!",
	}, "\n")
}
