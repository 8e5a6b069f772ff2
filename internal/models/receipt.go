package models

import "time"

// Receipt is the immutable record of a paid order.
type Receipt struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	DeviceID  string     `json:"device_id" gorm:"index;type:varchar(255);not null"`
	Reference string     `json:"reference" gorm:"uniqueIndex;type:varchar(255);not null"`
	Items     []CartLine `json:"items" gorm:"type:text;serializer:json"`
	Total     int64      `json:"total"`
	Channel   string     `json:"channel" gorm:"type:varchar(50)"`
	PaidAt    time.Time  `json:"paid_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// OrderPaidEvent is published once for every new receipt.
type OrderPaidEvent struct {
	DeviceID  string     `json:"device_id"`
	Reference string     `json:"reference"`
	Total     int64      `json:"total"`
	Items     []CartLine `json:"items"`
	PaidAt    time.Time  `json:"paid_at"`
}
