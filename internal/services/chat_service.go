package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"chatorder/internal/models"
	"chatorder/internal/repositories"

	"github.com/google/uuid"
)

// Chat replies that do not depend on session state.
const (
	ReplyFallback        = `🤔 I didn’t quite catch that. Try selecting from the menu or typing "1" to view options.`
	ReplyNothingToPay    = "No order to checkout."
	ReplyCheckoutFailed  = "Something went wrong while initializing payment."
	ReplyNoPastOrders    = "🕵️ No past orders found."
	ReplyEmptyCart       = "No current order. Start by typing a dish name."
	ReplyOrderCancelled  = "Your current order has been cancelled."
	ReplyThankYou        = "🎉 Thank you for your order! Your meal is being prepared.\n\nWhat would you like to do next?"
	ReplyVerifyFailed    = "⚠️ We couldn’t verify your payment. It might be a network issue or a delay from Paystack.\n\nIf you were charged, contact support with your payment reference."
	replyPaymentCanceled = "⚠️ Payment was cancelled."
	replyPaymentFailed   = "❌ Payment failed."
)

// ChatService interprets chat messages against per-device sessions.
type ChatService struct {
	sessions    repositories.SessionStore
	menu        *MenuService
	gateway     Gateway
	emailDomain string
}

// NewChatService creates a new ChatService. Guest e-mails sent to the gateway
// use emailDomain.
func NewChatService(sessions repositories.SessionStore, menu *MenuService, gateway Gateway, emailDomain string) *ChatService {
	return &ChatService{
		sessions:    sessions,
		menu:        menu,
		gateway:     gateway,
		emailDomain: emailDomain,
	}
}

// Welcome is sent when a chat connection opens.
func (s *ChatService) Welcome() models.Reply {
	return models.Reply{Reply: s.menu.WelcomeText(), Kind: models.KindWelcome}
}

// HandleMessage resolves the session of deviceID and processes message.
func (s *ChatService) HandleMessage(deviceID, message string) models.Reply {
	return s.Process(s.sessions.Resolve(deviceID), message)
}

// Process applies one message to session and returns the bot reply. The
// session stays locked until the reply is built, including while the payment
// gateway is called.
func (s *ChatService) Process(session *models.Session, message string) models.Reply {
	session.Lock()
	defer session.Unlock()

	cmd, item := Classify(message, s.menu)

	switch cmd {
	case CommandGreeting:
		return s.Welcome()
	case CommandViewMenu:
		return models.Reply{Reply: s.menu.MenuText(), Kind: models.KindMenu}
	case CommandCheckout:
		return s.checkout(session)
	case CommandHistory:
		return text(formatOrderHistory(session.Orders))
	case CommandViewCart:
		return s.viewCart(session)
	case CommandCancel:
		session.CurrentOrder = []models.CartLine{}
		return text(ReplyOrderCancelled)
	case CommandAddItem:
		session.CurrentOrder = addLine(session.CurrentOrder, *item)
		return models.Reply{
			Reply: fmt.Sprintf("Item %q added to your order.", item.Name),
			Kind:  models.KindPostAdd,
		}
	case CommandPaymentConfirmed:
		return models.Reply{Reply: ReplyThankYou, Kind: models.KindPostPaymentMenu}
	case CommandPaymentCancelled:
		return text(paymentRetryText(replyPaymentCanceled, session.LatestPending()))
	case CommandPaymentFailed:
		return text(paymentRetryText(replyPaymentFailed, session.LatestPending()))
	case CommandPaymentVerificationError:
		return text(ReplyVerifyFailed)
	case CommandUnknown:
		return text(ReplyFallback)
	}
	return text(ReplyFallback)
}

func (s *ChatService) checkout(session *models.Session) models.Reply {
	if len(session.CurrentOrder) == 0 {
		return text(ReplyNothingToPay)
	}

	total, summary := PriceCart(session.CurrentOrder, s.menu)
	log.Printf("Checkout triggered for device %s: %d lines, total %d", session.DeviceID, len(session.CurrentOrder), total)

	charge, err := s.gateway.InitializeCharge(s.guestEmail(), total, summary)
	if err == nil && charge.Reference == "" {
		err = errors.New("gateway returned no payment reference")
	}
	if err != nil {
		log.Printf("Error initializing payment for device %s: %v", session.DeviceID, err)
		return text(ReplyCheckoutFailed)
	}

	snapshot := CopyLines(session.CurrentOrder)
	session.History = append(session.History, snapshot)
	session.AddPending(&models.PendingCheckout{
		Reference:  charge.Reference,
		PaymentURL: charge.PaymentURL,
		Items:      CopyLines(snapshot),
		Total:      total,
	})
	session.CurrentOrder = []models.CartLine{}

	return text(fmt.Sprintf("Order placed successfully!\n\n💳 Click [here](%s) to pay with Paystack.", charge.PaymentURL))
}

func (s *ChatService) viewCart(session *models.Session) models.Reply {
	if len(session.CurrentOrder) == 0 {
		return text(ReplyEmptyCart)
	}
	total, summary := PriceCart(session.CurrentOrder, s.menu)
	return text(fmt.Sprintf("Current Order:\n%s\n\nTotal: %d", summary, total))
}

func (s *ChatService) guestEmail() string {
	return fmt.Sprintf("guest-%s@%s", uuid.New().String(), s.emailDomain)
}

func formatOrderHistory(orders []models.Receipt) string {
	if len(orders) == 0 {
		return ReplyNoPastOrders
	}

	entries := make([]string, 0, len(orders))
	for i, order := range orders {
		items := make([]string, 0, len(order.Items))
		for _, line := range order.Items {
			items = append(items, fmt.Sprintf("%s x%d", line.Name, line.Quantity))
		}
		entries = append(entries, fmt.Sprintf("#%d - %d – %s – Ref: %s",
			i+1, order.Total, strings.Join(items, ", "), order.Reference))
	}
	return "📜 Your Order History:\n\n" + strings.Join(entries, "\n\n")
}

func paymentRetryText(prefix string, pending *models.PendingCheckout) string {
	if pending == nil || pending.PaymentURL == "" {
		return prefix + "\n\nType 1 to see the menu and start a new order."
	}
	return fmt.Sprintf("%s\n\n💳 You can retry here: [pay now](%s)\nor type 1 to return to the menu.", prefix, pending.PaymentURL)
}

func text(reply string) models.Reply {
	return models.Reply{Reply: reply, Kind: models.KindText}
}
