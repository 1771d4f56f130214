package types

import (
	"github.com/google/uuid"
)

// ApiClient identifies the system calling the initiation routes. It travels
// inside the bearer token.
type ApiClient struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	ShortCode string    `json:"short_code" validate:"omitempty,shortcode"`
}
