package entities

import (
	"time"

	"github.com/opengovern/linkhub/services/quota/db/model"
	"github.com/opengovern/linkhub/services/quota/gate"
)

type QuotaUsageResponse struct {
	ActorID string                             `json:"actorId"`
	Usage   map[model.ActionType]gate.Decision `json:"usage"`
}

type WarnResponse struct {
	Warned bool `json:"warned"`
}

type CreditBalanceResponse struct {
	ActorID string `json:"actorId"`
	Balance int64  `json:"balance"`
}

type GrantCreditsRequest struct {
	ActorID   string `json:"actorId" validate:"required"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Reference string `json:"reference"`
}

type CreditTransaction struct {
	Kind         string    `json:"kind"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balanceAfter"`
	Reference    string    `json:"reference,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewCreditTransaction(m model.CreditTransaction) CreditTransaction {
	tx := CreditTransaction{
		Kind:         string(m.Kind),
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		CreatedAt:    m.CreatedAt,
	}
	if m.Reference != nil {
		tx.Reference = *m.Reference
	}
	return tx
}
