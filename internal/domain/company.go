package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company represents one isolated tenant. Every account, transaction,
// aggregate and projection belongs to exactly one company.
type Company struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}
