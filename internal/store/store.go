package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"higestdata/internal/db"
)

var (
	ErrNotFound          = errors.New("store: not found")
	ErrInsufficientFunds = errors.New("store: insufficient funds")
)

// Store owns the users and transactions tables. All status-changing
// statements are conditional on the current status, so replaying an
// update is a no-op rather than a double mutation.
type Store struct {
	db *db.DB
}

func New(database *db.DB) *Store {
	return &Store{db: database}
}

type User struct {
	ID          string
	Email       string
	Role        string
	BalanceKobo int64
	CreatedAt   time.Time
}

func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, role, balance_kobo, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.Role, &u.BalanceKobo, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get user: %w", err)
	}

	return &u, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx Transaction) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO transactions (user_id, reference, kind, provider, status, amount_kobo, detail)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		tx.UserID,
		tx.Reference,
		tx.Kind,
		tx.Provider,
		StatusPending,
		tx.AmountKobo,
		tx.Detail,
	).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("store: create transaction: %w", err)
	}

	return id, nil
}

func (s *Store) GetTransactionByReference(ctx context.Context, reference string) (*Transaction, error) {
	var tx Transaction
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, reference, kind, provider, status, amount_kobo, detail, created_at, updated_at
		FROM transactions
		WHERE reference = $1
	`, reference).Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Reference,
		&tx.Kind,
		&tx.Provider,
		&tx.Status,
		&tx.AmountKobo,
		&tx.Detail,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get transaction: %w", err)
	}

	return &tx, nil
}

// MarkTransactionStatus moves a transaction out of pending. The guard
// makes the call idempotent: once a terminal status is applied, later
// calls (replays, out-of-order callbacks) report applied=false.
func (s *Store) MarkTransactionStatus(
	ctx context.Context,
	reference string,
	status string,
) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET status = $2, updated_at = NOW()
		WHERE reference = $1
		  AND status = $3
	`, reference, status, StatusPending)

	if err != nil {
		return false, fmt.Errorf("store: mark transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: mark transaction: %w", err)
	}

	return n > 0, nil
}

// SettleFundingSuccess marks a pending funding transaction successful
// and credits the wallet in one statement, so a replay can never
// double-credit.
func (s *Store) SettleFundingSuccess(ctx context.Context, reference string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		WITH settled AS (
			UPDATE transactions
			SET status = $2, updated_at = NOW()
			WHERE reference = $1
			  AND kind = $3
			  AND status = $4
			RETURNING user_id, amount_kobo
		)
		UPDATE users
		SET balance_kobo = users.balance_kobo + settled.amount_kobo,
		    updated_at = NOW()
		FROM settled
		WHERE users.id = settled.user_id
	`, reference, StatusSuccess, KindFunding, StatusPending)

	if err != nil {
		return false, fmt.Errorf("store: settle funding: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: settle funding: %w", err)
	}

	return n > 0, nil
}

// SettleTradeSuccess approves a pending gift card or crypto sale and
// credits the seller, with the same single-statement guard as funding
// settlement.
func (s *Store) SettleTradeSuccess(ctx context.Context, reference string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		WITH settled AS (
			UPDATE transactions
			SET status = $2, updated_at = NOW()
			WHERE reference = $1
			  AND kind IN ($3, $4)
			  AND status = $5
			RETURNING user_id, amount_kobo
		)
		UPDATE users
		SET balance_kobo = users.balance_kobo + settled.amount_kobo,
		    updated_at = NOW()
		FROM settled
		WHERE users.id = settled.user_id
	`, reference, StatusSuccess, KindGiftCard, KindCrypto, StatusPending)

	if err != nil {
		return false, fmt.Errorf("store: settle trade: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: settle trade: %w", err)
	}

	return n > 0, nil
}

// DebitForSpend reserves balance for a wallet-funded purchase or
// withdrawal before the provider call is made.
func (s *Store) DebitForSpend(ctx context.Context, userID string, amountKobo int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET balance_kobo = balance_kobo - $2, updated_at = NOW()
		WHERE id = $1
		  AND balance_kobo >= $2
	`, userID, amountKobo)

	if err != nil {
		return fmt.Errorf("store: debit: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: debit: %w", err)
	}
	if n == 0 {
		return ErrInsufficientFunds
	}

	return nil
}

// RefundSpend marks a pending debit-backed transaction refunded and
// returns the amount to the wallet, guarded the same way as funding
// settlement.
func (s *Store) RefundSpend(ctx context.Context, reference string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		WITH refunded AS (
			UPDATE transactions
			SET status = $2, updated_at = NOW()
			WHERE reference = $1
			  AND status = $3
			RETURNING user_id, amount_kobo
		)
		UPDATE users
		SET balance_kobo = users.balance_kobo + refunded.amount_kobo,
		    updated_at = NOW()
		FROM refunded
		WHERE users.id = refunded.user_id
	`, reference, StatusRefunded, StatusPending)

	if err != nil {
		return false, fmt.Errorf("store: refund: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("store: refund: %w", err)
	}

	return n > 0, nil
}

func (s *Store) ListUserTransactions(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, reference, kind, provider, status, amount_kobo, detail, created_at, updated_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (s *Store) ListRecentTransactions(ctx context.Context, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, reference, kind, provider, status, amount_kobo, detail, created_at, updated_at
		FROM transactions
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list recent transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		var tx Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.UserID,
			&tx.Reference,
			&tx.Kind,
			&tx.Provider,
			&tx.Status,
			&tx.AmountKobo,
			&tx.Detail,
			&tx.CreatedAt,
			&tx.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("store: scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: scan transactions: %w", err)
	}
	return out, nil
}
