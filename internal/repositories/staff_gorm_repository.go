package repositories

import (
	"errors"
	"fmt"

	"chatorder/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStaffNotFound is returned when no staff account matches.
var ErrStaffNotFound = errors.New("staff not found")

// GORMStaffRepository is a GORM implementation of StaffRepository.
type GORMStaffRepository struct {
	db *gorm.DB
}

// NewGORMStaffRepository creates a new instance of GORMStaffRepository.
func NewGORMStaffRepository(db *gorm.DB) *GORMStaffRepository {
	return &GORMStaffRepository{
		db: db,
	}
}

// Create creates a new staff account in the database.
func (r *GORMStaffRepository) Create(staff *models.Staff) error {
	if staff.ID == "" {
		staff.ID = uuid.New().String()
	}
	if err := r.db.Create(staff).Error; err != nil {
		return fmt.Errorf("failed to create staff %s: %w", staff.Username, err)
	}
	return nil
}

// GetByUsername retrieves a staff account by username.
func (r *GORMStaffRepository) GetByUsername(username string) (*models.Staff, error) {
	var staff models.Staff
	if err := r.db.First(&staff, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrStaffNotFound, username)
		}
		return nil, fmt.Errorf("failed to get staff by username %s: %w", username, err)
	}
	return &staff, nil
}
