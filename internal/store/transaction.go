package store

import "time"

// Transaction statuses. A transaction leaves "pending" exactly once;
// success, failed and refunded are terminal.
const (
	StatusPending  = "pending"
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusRefunded = "refunded"
)

// Transaction kinds.
const (
	KindFunding     = "funding"
	KindAirtime     = "airtime"
	KindData        = "data"
	KindCableTV     = "cable_tv"
	KindElectricity = "electricity"
	KindGiftCard    = "gift_card"
	KindCrypto      = "crypto"
	KindWithdrawal  = "withdrawal"
)

// Transaction is a money movement initiated by a user and settled by a
// provider callback. Amounts are in kobo.
type Transaction struct {
	ID         string
	UserID     string
	Reference  string
	Kind       string
	Provider   string
	Status     string
	AmountKobo int64
	Detail     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Terminal reports whether the status admits no further transitions.
func Terminal(status string) bool {
	switch status {
	case StatusSuccess, StatusFailed, StatusRefunded:
		return true
	}
	return false
}
