package webhook

import (
	"context"
	"errors"
	"fmt"

	"higestdata/internal/logger"
	"higestdata/internal/store"
)

// TransactionStore is the slice of the store the dispatcher mutates.
// Every method it relies on is a status-guarded transition.
type TransactionStore interface {
	GetTransactionByReference(ctx context.Context, reference string) (*store.Transaction, error)
	MarkTransactionStatus(ctx context.Context, reference string, status string) (bool, error)
	SettleFundingSuccess(ctx context.Context, reference string) (bool, error)
	RefundSpend(ctx context.Context, reference string) (bool, error)
}

type handlerFunc func(ctx context.Context, evt Event) error

// Dispatcher routes verified events to idempotent status-update
// handlers keyed by (provider, event type). Unrecognized combinations
// are logged and acknowledged so the provider does not retry them.
type Dispatcher struct {
	store    TransactionStore
	ledger   Ledger
	handlers map[string]handlerFunc
}

func NewDispatcher(txStore TransactionStore, ledger Ledger) *Dispatcher {
	d := &Dispatcher{
		store:  txStore,
		ledger: ledger,
	}

	d.handlers = map[string]handlerFunc{
		key(ProviderPaystack, "charge.success"):      d.fundingSucceeded,
		key(ProviderKorapay, "charge.success"):       d.fundingSucceeded,
		key(ProviderKorapay, "charge.failed"):        d.fundingFailed,
		key(ProviderFlutterwave, "charge.completed"): d.chargeCompleted,
		key(ProviderKorapay, "transfer.success"):     d.transferSucceeded,
		key(ProviderKorapay, "transfer.failed"):      d.spendReversed,
		key(ProviderEbills, "order.completed"):       d.orderCompleted,
		key(ProviderEbills, "order.failed"):          d.spendReversed,
		key(ProviderEbills, "order.refunded"):        d.spendReversed,
	}

	return d
}

func key(provider, eventType string) string {
	return provider + "/" + eventType
}

// Dispatch applies one verified event. Replays and unknown events are
// acknowledged no-ops; only genuine processing failures return an
// error (and with it a non-2xx that makes the provider retry).
func (d *Dispatcher) Dispatch(ctx context.Context, evt Event) error {
	handler, ok := d.handlers[key(evt.Provider, evt.Type)]
	if !ok {
		logger.Info("webhook event ignored", map[string]any{
			"provider": evt.Provider,
			"event":    evt.Type,
		})
		return nil
	}

	if !d.ledger.FirstDelivery(ctx, evt) {
		logger.Info("webhook replay dropped", map[string]any{
			"provider":  evt.Provider,
			"event":     evt.Type,
			"reference": evt.Reference,
		})
		return nil
	}

	return handler(ctx, evt)
}

// lookup resolves the affected transaction. A callback may arrive
// before the initiating record exists; that is a logged no-op, not a
// failure.
func (d *Dispatcher) lookup(ctx context.Context, evt Event) (*store.Transaction, error) {
	tx, err := d.store.GetTransactionByReference(ctx, evt.Reference)
	if errors.Is(err, store.ErrNotFound) {
		logger.Warn("webhook for unknown transaction", map[string]any{
			"provider":  evt.Provider,
			"event":     evt.Type,
			"reference": evt.Reference,
		})
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("webhook: lookup %s: %w", evt.Reference, err)
	}
	return tx, nil
}

func (d *Dispatcher) fundingSucceeded(ctx context.Context, evt Event) error {
	tx, err := d.lookup(ctx, evt)
	if err != nil || tx == nil {
		return err
	}

	applied, err := d.store.SettleFundingSuccess(ctx, evt.Reference)
	if err != nil {
		return err
	}
	d.logOutcome(evt, store.StatusSuccess, applied)
	return nil
}

func (d *Dispatcher) fundingFailed(ctx context.Context, evt Event) error {
	tx, err := d.lookup(ctx, evt)
	if err != nil || tx == nil {
		return err
	}

	applied, err := d.store.MarkTransactionStatus(ctx, evt.Reference, store.StatusFailed)
	if err != nil {
		return err
	}
	d.logOutcome(evt, store.StatusFailed, applied)
	return nil
}

// chargeCompleted handles Flutterwave's single completion event, which
// carries the outcome in the payload status.
func (d *Dispatcher) chargeCompleted(ctx context.Context, evt Event) error {
	if evt.Status == "successful" || evt.Status == store.StatusSuccess {
		return d.fundingSucceeded(ctx, evt)
	}
	return d.fundingFailed(ctx, evt)
}

func (d *Dispatcher) transferSucceeded(ctx context.Context, evt Event) error {
	tx, err := d.lookup(ctx, evt)
	if err != nil || tx == nil {
		return err
	}

	applied, err := d.store.MarkTransactionStatus(ctx, evt.Reference, store.StatusSuccess)
	if err != nil {
		return err
	}
	d.logOutcome(evt, store.StatusSuccess, applied)
	return nil
}

// spendReversed returns a debit to the wallet when a transfer or VTU
// order fails after the balance was already reserved.
func (d *Dispatcher) spendReversed(ctx context.Context, evt Event) error {
	tx, err := d.lookup(ctx, evt)
	if err != nil || tx == nil {
		return err
	}

	applied, err := d.store.RefundSpend(ctx, evt.Reference)
	if err != nil {
		return err
	}
	d.logOutcome(evt, store.StatusRefunded, applied)
	return nil
}

func (d *Dispatcher) orderCompleted(ctx context.Context, evt Event) error {
	tx, err := d.lookup(ctx, evt)
	if err != nil || tx == nil {
		return err
	}

	applied, err := d.store.MarkTransactionStatus(ctx, evt.Reference, store.StatusSuccess)
	if err != nil {
		return err
	}
	d.logOutcome(evt, store.StatusSuccess, applied)
	return nil
}

func (d *Dispatcher) logOutcome(evt Event, status string, applied bool) {
	if applied {
		logger.Info("webhook applied", map[string]any{
			"provider":  evt.Provider,
			"event":     evt.Type,
			"reference": evt.Reference,
			"status":    status,
		})
		return
	}
	logger.Info("webhook no-op, transaction already settled", map[string]any{
		"provider":  evt.Provider,
		"event":     evt.Type,
		"reference": evt.Reference,
	})
}
