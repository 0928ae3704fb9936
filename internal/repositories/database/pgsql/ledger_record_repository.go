package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/atworth/bankfeed/internal/apperrors"
	"github.com/atworth/bankfeed/internal/core/domain"
	"github.com/atworth/bankfeed/internal/core/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// recordType distinguishes statement records in the ledger.
const recordType = "bankstatement"

// PgxLedgerRecordRepository implements the ledger record store: one row per
// normalized payment entry, columns matching the fixed bankstatement field
// contract.
type PgxLedgerRecordRepository struct {
	BaseRepository
}

// NewPgxLedgerRecordRepository creates a new PgxLedgerRecordRepository.
func NewPgxLedgerRecordRepository(db *pgxpool.Pool) *PgxLedgerRecordRepository {
	return &PgxLedgerRecordRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var (
	_ ports.LedgerRecordStore  = (*PgxLedgerRecordRepository)(nil)
	_ ports.LedgerRecordReader = (*PgxLedgerRecordRepository)(nil)
)

// CreateRecord persists one payment entry. The unassigned currency sentinel
// (-1) is stored as-is; the ledger reports it on assignment downstream.
func (r *PgxLedgerRecordRepository) CreateRecord(ctx context.Context, entry domain.PaymentEntry) error {
	vendorID := ""
	if entry.Vendor != nil {
		vendorID = entry.Vendor.ID
	}

	query := `
		INSERT INTO bank_statement_records (
			record_id, record_type, vendor, bank_number, vendor_bank_account,
			address, payment_date, payment_type, reference, reference_number,
			transfer_amount, transfer_currency, transfer_exchange_rate,
			from_currency, to_currency, load_reference, bank_account, subsidiary,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := r.Pool.Exec(ctx, query,
		uuid.NewString(),
		recordType,
		vendorID,
		entry.BankAccountDescriptor,
		entry.VendorBankAccountID,
		entry.Address,
		entry.PaymentDate,
		entry.PaymentType,
		entry.Reference,
		entry.ReferenceNumber,
		entry.TransferAmount,
		entry.TransferCurrencyCode,
		entry.TransferExchangeRate,
		entry.FromCurrencyID,
		entry.ToCurrencyID,
		entry.LoadReference,
		entry.VendorAccountRef,
		entry.SubsidiaryID,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreWrite, err)
	}
	return nil
}

// ListCreatedSince returns records created at or after the given instant,
// newest first.
func (r *PgxLedgerRecordRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]domain.PaymentEntry, error) {
	query := `
		SELECT
			bank_number, vendor_bank_account, address, payment_date, payment_type,
			reference, reference_number, transfer_amount, transfer_currency,
			transfer_exchange_rate, from_currency, to_currency,
			load_reference, bank_account, subsidiary
		FROM bank_statement_records
		WHERE record_type = $1 AND created_at >= $2
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, recordType, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PaymentEntry, error) {
		var e domain.PaymentEntry
		err := row.Scan(
			&e.BankAccountDescriptor, &e.VendorBankAccountID, &e.Address,
			&e.PaymentDate, &e.PaymentType, &e.Reference, &e.ReferenceNumber,
			&e.TransferAmount, &e.TransferCurrencyCode, &e.TransferExchangeRate,
			&e.FromCurrencyID, &e.ToCurrencyID,
			&e.LoadReference, &e.VendorAccountRef, &e.SubsidiaryID,
		)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan records: %w", err)
	}
	return entries, nil
}
