package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// ListByCompanyAndPeriod retrieves the company's transactions with dates
// in [start, end], inclusive on both bounds
func (r *transactionRepository) ListByCompanyAndPeriod(ctx context.Context, companyID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error) {
	query := `
		SELECT id, company_id, external_id, txn_type, txn_date, amount, currency, account_id, raw_payload, ingestion_run_id
		FROM transactions
		WHERE company_id = $1 AND txn_date >= $2 AND txn_date <= $3
		ORDER BY txn_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		var amountStr string
		var accountID sql.NullString
		var rawPayload []byte

		err := rows.Scan(
			&txn.ID,
			&txn.CompanyID,
			&txn.ExternalID,
			&txn.TxnType,
			&txn.TxnDate,
			&amountStr,
			&txn.Currency,
			&accountID,
			&rawPayload,
			&txn.IngestionRunID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		txn.Amount = amount

		if accountID.Valid {
			parsed, err := uuid.Parse(accountID.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse account_id: %w", err)
			}
			txn.AccountID = &parsed
		}

		txn.RawPayload = rawPayload

		transactions = append(transactions, &txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}
