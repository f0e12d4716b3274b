package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns plants.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
