package gate

import "time"

type Reason string

const (
	ReasonQuotaExceeded  Reason = "quota_exceeded"
	ReasonError          Reason = "error"
	ReasonNoSubscription Reason = "no_subscription"
	ReasonNoProfile      Reason = "no_profile"
)

type Source string

const (
	SourceSubscription Source = "subscription"
	SourceCredit       Source = "credit"
)

// Decision is the outcome of a quota check. Reason is set only when the action is denied,
// Source only when it is allowed.
type Decision struct {
	Allowed          bool      `json:"allowed"`
	Reason           Reason    `json:"reason,omitempty"`
	Source           Source    `json:"source,omitempty"`
	Quota            int64     `json:"quota"`
	Used             int64     `json:"used"`
	CreditsRemaining int64     `json:"creditsRemaining"`
	ResetAt          time.Time `json:"resetAt"`
}

func (d Decision) outcome() string {
	if d.Allowed {
		return string(d.Source)
	}
	return string(d.Reason)
}
