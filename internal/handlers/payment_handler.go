package handlers

import (
	"errors"
	"log"
	"time"

	"chatorder/internal/models"
	"chatorder/internal/services"
	"chatorder/pkg/paystack"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment verification and receipt lookups.
type PaymentHandler struct {
	payments *services.PaymentService
	validate *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		validate: validator.New(),
	}
}

// VerifyPaymentRequest is sent by the client after the payment popup closes.
type VerifyPaymentRequest struct {
	Reference string `json:"reference" validate:"required,max=255"`
	DeviceID  string `json:"deviceId" validate:"required,max=255"`
}

type receiptView struct {
	Amount    int64             `json:"amount"`
	Reference string            `json:"reference"`
	Channel   string            `json:"channel"`
	PaidAt    time.Time         `json:"paid_at"`
	Items     []models.CartLine `json:"items"`
}

// RegisterRoutes registers the payment routes with the Fiber router.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/payments/verify", h.HandleVerifyPayment)
	router.Get("/devices/:deviceId/receipts", h.HandleDeviceReceipts)
}

// RegisterCallbackRoute mounts the verification endpoint at the path the chat
// client calls after payment.
func (h *PaymentHandler) RegisterCallbackRoute(router fiber.Router) {
	router.Post("/verify-payment", h.HandleVerifyPayment)
}

// HandleVerifyPayment confirms a payment reference for a device.
func (h *PaymentHandler) HandleVerifyPayment(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing verify request body: %v", err)
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	result, err := h.payments.VerifyPayment(req.Reference, req.DeviceID)
	if err != nil {
		log.Printf("Verification error for %s: %v", req.Reference, err)
		status := fiber.StatusInternalServerError
		if errors.Is(err, paystack.ErrGateway) {
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(fiber.Map{"status": "error"})
	}

	if result.Status != services.VerificationSucceeded {
		return c.JSON(fiber.Map{
			"status": result.Status,
			"reply":  result.Reply.Reply,
			"type":   result.Reply.Kind,
		})
	}

	return c.JSON(fiber.Map{
		"status":  result.Status,
		"receipt": toReceiptView(result.Receipt),
		"reply":   result.Reply.Reply,
		"type":    result.Reply.Kind,
	})
}

// HandleDeviceReceipts lists the persisted receipts of a device.
func (h *PaymentHandler) HandleDeviceReceipts(c *fiber.Ctx) error {
	deviceID := c.Params("deviceId")
	receipts, err := h.payments.ReceiptsForDevice(deviceID)
	if err != nil {
		log.Printf("Error listing receipts for %s: %v", deviceID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve receipts",
			"error":   err.Error(),
		})
	}
	return c.JSON(toReceiptViews(receipts))
}

func toReceiptView(r *models.Receipt) receiptView {
	return receiptView{
		Amount:    r.Total,
		Reference: r.Reference,
		Channel:   r.Channel,
		PaidAt:    r.PaidAt,
		Items:     r.Items,
	}
}

func toReceiptViews(receipts []models.Receipt) []receiptView {
	views := make([]receiptView, 0, len(receipts))
	for i := range receipts {
		views = append(views, toReceiptView(&receipts[i]))
	}
	return views
}
