package handlers

import (
	"log"

	"chatorder/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MenuHandler exposes the catalog.
type MenuHandler struct {
	menu *services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(menu *services.MenuService) *MenuHandler {
	return &MenuHandler{menu: menu}
}

// RegisterRoutes registers the menu routes with the Fiber router.
func (h *MenuHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/menu", h.HandleGetMenu)
}

// HandleGetMenu returns the catalog in display order.
func (h *MenuHandler) HandleGetMenu(c *fiber.Ctx) error {
	items, err := h.menu.Items()
	if err != nil {
		log.Printf("Error getting menu: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve menu",
			"error":   err.Error(),
		})
	}
	return c.JSON(items)
}
