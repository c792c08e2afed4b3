package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Account represents one ledger account of a company, carrying the raw
// type/subtype taxonomy from the source accounting system plus the
// resolved canonical category once mapping has run.
type Account struct {
	ID            uuid.UUID
	CompanyID     uuid.UUID
	ExternalID    string
	Name          string
	AccountType   string // free-text source taxonomy, e.g. "Bank", "Expense"
	AccountSubtype string
	// MappingCategoryID is nil until the resolver or a manual override
	// assigns a category.
	MappingCategoryID *uuid.UUID
}

// Validate ensures the account adheres to domain rules.
func (a *Account) Validate() error {
	if a.CompanyID == uuid.Nil {
		return errors.New("account must belong to a company")
	}
	if a.Name == "" {
		return errors.New("account name cannot be empty")
	}
	return nil
}

// Mapped reports whether the account has a resolved category.
func (a *Account) Mapped() bool {
	return a.MappingCategoryID != nil
}
