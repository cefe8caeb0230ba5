package credit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opengovern/linkhub/services/quota/db/model"
	"github.com/opengovern/linkhub/services/quota/db/repo"
	"github.com/opengovern/linkhub/services/quota/events"
	"go.uber.org/zap"
)

var (
	ErrInsufficientBalance = errors.New("insufficient credit balance")
	ErrInvalidAmount       = errors.New("credit amount must be positive")
)

// ConsumeError reports that the store could not perform the atomic decrement.
// The balance is untouched when it is returned.
type ConsumeError struct {
	ActorID string
	Err     error
}

func (e *ConsumeError) Error() string {
	return fmt.Sprintf("consume credit for actor %s: %v", e.ActorID, e.Err)
}

func (e *ConsumeError) Unwrap() error {
	return e.Err
}

type Ledger struct {
	logger    *zap.Logger
	credits   repo.CreditRepo
	publisher events.Publisher
	now       func() time.Time
}

func NewLedger(logger *zap.Logger, credits repo.CreditRepo, publisher events.Publisher) *Ledger {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Ledger{
		logger:    logger.Named("credit"),
		credits:   credits,
		publisher: publisher,
		now:       time.Now,
	}
}

func (l *Ledger) Balance(ctx context.Context, actorID string) (int64, error) {
	balance, err := l.credits.GetBalance(ctx, actorID)
	if err != nil {
		return 0, fmt.Errorf("get credit balance: %w", err)
	}
	return balance, nil
}

// ConsumeOne takes exactly one credit. The decrement is a single conditional update in the store,
// so concurrent callers across instances can never take the balance below zero.
func (l *Ledger) ConsumeOne(ctx context.Context, actorID string) (int64, error) {
	balance, err := l.credits.DecrementOne(ctx, actorID)
	if err != nil {
		if errors.Is(err, repo.ErrBalanceExhausted) {
			return 0, ErrInsufficientBalance
		}
		return 0, &ConsumeError{ActorID: actorID, Err: err}
	}

	l.logger.Info("credit consumed",
		zap.String("actorId", actorID),
		zap.Int64("balance", balance))
	l.publish(ctx, events.Event{
		Type:    events.TypeCreditConsumed,
		ActorID: actorID,
		Amount:  1,
		Balance: balance,
	})

	return balance, nil
}

// Credit tops the balance up; it is called by payment completion, never by the gate.
func (l *Ledger) Credit(ctx context.Context, actorID string, amount int64, reference string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var ref *string
	if reference != "" {
		ref = &reference
	}

	balance, err := l.credits.Increment(ctx, actorID, amount, ref)
	if err != nil {
		return 0, fmt.Errorf("increment credit balance: %w", err)
	}

	l.logger.Info("credits granted",
		zap.String("actorId", actorID),
		zap.Int64("amount", amount),
		zap.Int64("balance", balance),
		zap.String("reference", reference))
	l.publish(ctx, events.Event{
		Type:      events.TypeCreditGranted,
		ActorID:   actorID,
		Amount:    amount,
		Balance:   balance,
		Reference: reference,
	})

	return balance, nil
}

func (l *Ledger) Transactions(ctx context.Context, actorID string) ([]model.CreditTransaction, error) {
	return l.credits.ListTransactions(ctx, actorID)
}

func (l *Ledger) publish(ctx context.Context, ev events.Event) {
	ev.OccurredAt = l.now().UTC()
	if err := l.publisher.Publish(ctx, ev); err != nil {
		l.logger.Warn("failed to publish credit event",
			zap.String("type", string(ev.Type)),
			zap.String("actorId", ev.ActorID),
			zap.Error(err))
	}
}
