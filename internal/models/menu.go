package models

// MenuItem is a single catalog entry. Prices are whole currency units.
type MenuItem struct {
	ID    string `json:"id" mapstructure:"id" validate:"required,max=36"`
	Name  string `json:"name" mapstructure:"name" validate:"required,max=100"`
	Price int64  `json:"price" mapstructure:"price" validate:"gte=0"`
}
