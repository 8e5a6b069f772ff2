package services

import (
	"strings"

	"chatorder/internal/models"
)

// Command is the closed set of inputs the chat understands.
type Command int

const (
	CommandUnknown Command = iota
	CommandGreeting
	CommandViewMenu
	CommandCheckout
	CommandHistory
	CommandViewCart
	CommandCancel
	CommandAddItem
	CommandPaymentConfirmed
	CommandPaymentCancelled
	CommandPaymentFailed
	CommandPaymentVerificationError
)

var commandNames = map[Command]string{
	CommandUnknown:                  "unknown",
	CommandGreeting:                 "greeting",
	CommandViewMenu:                 "view-menu",
	CommandCheckout:                 "checkout",
	CommandHistory:                  "history",
	CommandViewCart:                 "view-cart",
	CommandCancel:                   "cancel",
	CommandAddItem:                  "add-item",
	CommandPaymentConfirmed:         "payment-confirmed",
	CommandPaymentCancelled:         "payment-cancelled",
	CommandPaymentFailed:            "payment-failed",
	CommandPaymentVerificationError: "payment-verification-error",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// keywords maps normalized input to a fixed command. Menu names are matched
// only when no keyword applies.
var keywords = map[string]Command{
	"hello":                      CommandGreeting,
	"hi":                         CommandGreeting,
	"good morning":               CommandGreeting,
	"good afternoon":             CommandGreeting,
	"good evening":               CommandGreeting,
	"1":                          CommandViewMenu,
	"menu":                       CommandViewMenu,
	"99":                         CommandCheckout,
	"98":                         CommandHistory,
	"97":                         CommandViewCart,
	"0":                          CommandCancel,
	"payment-confirmed":          CommandPaymentConfirmed,
	"payment-cancelled":          CommandPaymentCancelled,
	"payment-failed":             CommandPaymentFailed,
	"payment-verification-error": CommandPaymentVerificationError,
}

// Normalize trims and lower-cases raw chat input.
func Normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

// Classify maps a raw message to a command. For CommandAddItem the matched
// catalog entry is returned as well.
func Classify(message string, menu *MenuService) (Command, *models.MenuItem) {
	input := Normalize(message)
	if cmd, ok := keywords[input]; ok {
		return cmd, nil
	}
	if item, ok := menu.FindItem(input); ok {
		return CommandAddItem, item
	}
	return CommandUnknown, nil
}
