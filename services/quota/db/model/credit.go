package model

import "time"

type CreditBalance struct {
	ActorID   string `gorm:"primaryKey;type:varchar(64)"`
	Balance   int64  `gorm:"not null;default:0;check:chk_credit_balances_non_negative,balance >= 0"`
	UpdatedAt time.Time
}

type CreditTransactionKind string

const (
	CreditTransactionGrant   CreditTransactionKind = "grant"
	CreditTransactionConsume CreditTransactionKind = "consume"
)

// CreditTransaction is the audit trail of balance changes, written in the same transaction as the change.
type CreditTransaction struct {
	ID           uint                  `gorm:"primarykey"`
	ActorID      string                `gorm:"index;not null"`
	Kind         CreditTransactionKind `gorm:"type:varchar(16);not null"`
	Amount       int64                 `gorm:"not null"`
	BalanceAfter int64                 `gorm:"not null"`
	Reference    *string
	CreatedAt    time.Time `gorm:"index"`
}
