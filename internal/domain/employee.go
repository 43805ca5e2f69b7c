package domain

import (
	"time"

	"github.com/google/uuid"
)

// Employee is the identity record committed once the detectability gate
// passes. Only the fields the pipeline needs live here; full employee CRUD
// belongs to the directory service.
type Employee struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
