package repositories

import (
	"fmt"
	"sync"
	"time"

	"chatorder/internal/models"

	"github.com/google/uuid"
)

// MockReceiptRepository is an in-memory implementation of ReceiptRepository.
type MockReceiptRepository struct {
	receipts []models.Receipt
	byRef    map[string]int
	mu       sync.RWMutex
}

// NewMockReceiptRepository creates a new instance of MockReceiptRepository.
func NewMockReceiptRepository() *MockReceiptRepository {
	return &MockReceiptRepository{
		byRef: make(map[string]int),
	}
}

// Append adds a receipt if its reference is new.
func (r *MockReceiptRepository) Append(receipt *models.Receipt) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if receipt.Reference == "" {
		return false, fmt.Errorf("receipt reference is required")
	}
	if _, ok := r.byRef[receipt.Reference]; ok {
		return false, nil
	}
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	receipt.CreatedAt = time.Now()

	r.byRef[receipt.Reference] = len(r.receipts)
	r.receipts = append(r.receipts, *receipt)
	return true, nil
}

// GetByReference returns the receipt with the given reference.
func (r *MockReceiptRepository) GetByReference(reference string) (*models.Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byRef[reference]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrReceiptNotFound, reference)
	}
	receipt := r.receipts[idx]
	return &receipt, nil
}

// ListByDevice returns the receipts of a device in append order.
func (r *MockReceiptRepository) ListByDevice(deviceID string) ([]models.Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Receipt, 0)
	for _, receipt := range r.receipts {
		if receipt.DeviceID == deviceID {
			list = append(list, receipt)
		}
	}
	return list, nil
}

// ListAll returns every receipt in append order.
func (r *MockReceiptRepository) ListAll() ([]models.Receipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Receipt, len(r.receipts))
	copy(list, r.receipts)
	return list, nil
}
