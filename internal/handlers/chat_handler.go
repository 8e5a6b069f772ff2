package handlers

import (
	"log"

	"chatorder/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// ChatHandler serves the chat over HTTP and WebSocket.
type ChatHandler struct {
	chat     *services.ChatService
	validate *validator.Validate
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{
		chat:     chat,
		validate: validator.New(),
	}
}

// ChatRequest is one user message.
type ChatRequest struct {
	DeviceID string `json:"deviceId" validate:"required,max=255"`
	Message  string `json:"message" validate:"max=1000"`
}

// chatFrame is the WebSocket payload sent by the client.
type chatFrame struct {
	Message string `json:"message"`
}

// RegisterRoutes registers the chat routes with the Fiber router.
func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/chat/messages", h.HandleMessage)
}

// RegisterWebSocket mounts the real-time chat at /ws.
func (h *ChatHandler) RegisterWebSocket(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(h.HandleSocket))
}

// HandleMessage processes one message and returns the bot reply.
func (h *ChatHandler) HandleMessage(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing chat request body: %v", err)
		return badRequest(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	log.Printf("Message from %s: %s", req.DeviceID, req.Message)
	return c.JSON(h.chat.HandleMessage(req.DeviceID, req.Message))
}

// HandleSocket greets the device and answers every message frame until the
// connection closes. The device id comes from the deviceId query parameter.
func (h *ChatHandler) HandleSocket(c *websocket.Conn) {
	deviceID := c.Query("deviceId")
	if deviceID == "" {
		_ = c.WriteJSON(fiber.Map{"message": "deviceId query parameter is required"})
		_ = c.Close()
		return
	}

	log.Printf("New connection from %s", deviceID)
	defer log.Printf("Disconnected: %s", deviceID)

	if err := c.WriteJSON(h.chat.Welcome()); err != nil {
		log.Printf("Error sending welcome to %s: %v", deviceID, err)
		return
	}

	for {
		var frame chatFrame
		if err := c.ReadJSON(&frame); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Error reading from %s: %v", deviceID, err)
			}
			return
		}

		log.Printf("Message from %s: %s", deviceID, frame.Message)
		if err := c.WriteJSON(h.chat.HandleMessage(deviceID, frame.Message)); err != nil {
			log.Printf("Error replying to %s: %v", deviceID, err)
			return
		}
	}
}
