package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"chatorder/internal/models"
)

// HandleOrderPaid turns an order.paid event into a kitchen ticket log line.
func HandleOrderPaid(body []byte) error {
	var event models.OrderPaidEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode order paid event: %w", err)
	}
	if event.Reference == "" {
		return fmt.Errorf("order paid event has no reference")
	}

	items := make([]string, 0, len(event.Items))
	for _, line := range event.Items {
		items = append(items, fmt.Sprintf("%dx %s", line.Quantity, line.Name))
	}
	log.Printf("Kitchen ticket %s (device %s): %s", event.Reference, event.DeviceID, strings.Join(items, ", "))
	return nil
}
