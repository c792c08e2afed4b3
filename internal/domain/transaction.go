package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction represents one ingested accounting transaction. Rows are
// append-only and immutable once ingested; the ingestion pipeline
// deduplicates them by (company, external id) before they reach this core.
type Transaction struct {
	ID         uuid.UUID
	CompanyID  uuid.UUID
	ExternalID string
	TxnType    string
	TxnDate    time.Time
	// Amount keeps the sign from the source system. Aggregation never
	// flips signs; negative expenses stay negative.
	Amount   decimal.Decimal
	Currency string
	// AccountID is nil for transactions the source system did not tie to
	// an account. Such rows contribute to no aggregate totals.
	AccountID *uuid.UUID
	// RawPayload preserves the upstream record for provenance.
	RawPayload     json.RawMessage
	IngestionRunID string
}

// Validate ensures the transaction adheres to domain rules.
func (t *Transaction) Validate() error {
	if t.CompanyID == uuid.Nil {
		return errors.New("transaction must belong to a company")
	}
	if t.ExternalID == "" {
		return errors.New("transaction external id cannot be empty")
	}
	if t.TxnDate.IsZero() {
		return errors.New("transaction date cannot be zero")
	}
	return nil
}
