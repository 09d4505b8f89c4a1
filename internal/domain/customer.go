package domain

import "time"

// Customer models an end customer identified by WhatsApp phone number.
type Customer struct {
	ID        string
	Phone     string
	Name      *string
	Language  Language
	CreatedAt time.Time
	UpdatedAt time.Time
}
