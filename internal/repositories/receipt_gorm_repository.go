package repositories

import (
	"errors"
	"fmt"

	"chatorder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMReceiptRepository is a GORM implementation of ReceiptRepository.
type GORMReceiptRepository struct {
	db *gorm.DB
}

// NewGORMReceiptRepository creates a new instance of GORMReceiptRepository.
func NewGORMReceiptRepository(db *gorm.DB) *GORMReceiptRepository {
	return &GORMReceiptRepository{
		db: db,
	}
}

// Append inserts the receipt. A conflicting reference is skipped, not overwritten.
func (r *GORMReceiptRepository) Append(receipt *models.Receipt) (bool, error) {
	if receipt.Reference == "" {
		return false, fmt.Errorf("receipt reference is required")
	}
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}

	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reference"}},
		DoNothing: true,
	}).Create(receipt)
	if res.Error != nil {
		return false, fmt.Errorf("failed to append receipt %s: %w", receipt.Reference, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// GetByReference retrieves a receipt by its gateway reference.
func (r *GORMReceiptRepository) GetByReference(reference string) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := r.db.First(&receipt, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrReceiptNotFound, reference)
		}
		return nil, fmt.Errorf("failed to get receipt %s: %w", reference, err)
	}
	return &receipt, nil
}

// ListByDevice retrieves the receipts of a device, oldest first.
func (r *GORMReceiptRepository) ListByDevice(deviceID string) ([]models.Receipt, error) {
	receipts := make([]models.Receipt, 0)
	err := r.db.Where("device_id = ?", deviceID).
		Order("paid_at asc").Order("created_at asc").
		Find(&receipts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts for device %s: %w", deviceID, err)
	}
	return receipts, nil
}

// ListAll retrieves every receipt, oldest first.
func (r *GORMReceiptRepository) ListAll() ([]models.Receipt, error) {
	receipts := make([]models.Receipt, 0)
	if err := r.db.Order("paid_at asc").Order("created_at asc").Find(&receipts).Error; err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, nil
}
