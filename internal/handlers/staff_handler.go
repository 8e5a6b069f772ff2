package handlers

import (
	"errors"
	"log"

	"chatorder/internal/middleware"
	"chatorder/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StaffHandler handles staff login and the paid-orders board.
type StaffHandler struct {
	authService *services.AuthService
	payments    *services.PaymentService
	validate    *validator.Validate
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(authService *services.AuthService, payments *services.PaymentService) *StaffHandler {
	return &StaffHandler{
		authService: authService,
		payments:    payments,
		validate:    validator.New(),
	}
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterRoutes registers the staff routes; receipts require a token.
func (h *StaffHandler) RegisterRoutes(router fiber.Router) {
	staffRoutes := router.Group("/staff")
	staffRoutes.Post("/login", h.HandleLogin)
	staffRoutes.Get("/receipts", middleware.StaffOnly(h.authService), h.HandleListReceipts)
}

// HandleLogin issues a JWT for valid staff credentials.
func (h *StaffHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		log.Printf("Error during login for staff %s: %v", req.Username, err)
		status := fiber.StatusInternalServerError
		if errors.Is(err, services.ErrInvalidCredentials) {
			status = fiber.StatusUnauthorized
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// HandleListReceipts returns every paid order.
func (h *StaffHandler) HandleListReceipts(c *fiber.Ctx) error {
	receipts, err := h.payments.AllReceipts()
	if err != nil {
		log.Printf("Error listing receipts for %s: %v", middleware.StaffUsername(c), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve receipts",
			"error":   err.Error(),
		})
	}
	return c.JSON(receipts)
}
