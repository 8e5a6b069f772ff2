package repositories

import "chatorder/internal/models"

// StaffRepository defines the interface for staff account access.
type StaffRepository interface {
	Create(staff *models.Staff) error
	GetByUsername(username string) (*models.Staff, error)
}
