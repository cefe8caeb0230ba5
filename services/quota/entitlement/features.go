package entitlement

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/opengovern/linkhub/services/quota/db/model"
)

const (
	FeatureRequestQuotaPerMonth = "request_quota_per_month"
	FeatureOfferQuotaPerMonth   = "offer_quota_per_month"
)

// Features is the typed view of a plan's feature map. A nil field means the plan does not grant the action.
type Features struct {
	RequestQuotaPerMonth *int64
	OfferQuotaPerMonth   *int64
}

// ParseFeatures never fails: unreadable documents and malformed fields come back as absent.
func ParseFeatures(raw []byte) Features {
	var bag map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&bag); err != nil {
		return Features{}
	}

	return Features{
		RequestQuotaPerMonth: quotaField(bag[FeatureRequestQuotaPerMonth]),
		OfferQuotaPerMonth:   quotaField(bag[FeatureOfferQuotaPerMonth]),
	}
}

func quotaField(raw json.RawMessage) *int64 {
	if len(raw) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	n, ok := v.(json.Number)
	if !ok {
		return nil
	}

	if i, err := n.Int64(); err == nil {
		return &i
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil
	}
	i := int64(f)
	return &i
}

// Limit returns the monthly quota for the action; absent and negative values are 0, never unlimited.
func (f Features) Limit(action model.ActionType) int64 {
	var v *int64
	switch action {
	case model.ActionCreateRequest:
		v = f.RequestQuotaPerMonth
	case model.ActionCreateOffer:
		v = f.OfferQuotaPerMonth
	}
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
