package repositories

import (
	"errors"

	"chatorder/internal/models"
)

// ErrReceiptNotFound is returned when no receipt has the requested reference.
var ErrReceiptNotFound = errors.New("receipt not found")

// ReceiptRepository is the append-only log of paid orders.
type ReceiptRepository interface {
	// Append stores receipt unless one with the same reference exists.
	// It reports whether the receipt was written.
	Append(receipt *models.Receipt) (bool, error)
	GetByReference(reference string) (*models.Receipt, error)
	// ListByDevice returns the receipts of deviceID, oldest first. Unknown
	// devices yield an empty slice.
	ListByDevice(deviceID string) ([]models.Receipt, error)
	ListAll() ([]models.Receipt, error)
}
