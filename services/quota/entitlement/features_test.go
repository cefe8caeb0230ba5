package entitlement

import (
	"testing"

	"github.com/opengovern/linkhub/services/quota/db/model"
	"github.com/stretchr/testify/assert"
)

func TestParseFeatures(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		request int64
		offer   int64
	}{
		{"both present", `{"request_quota_per_month": 10, "offer_quota_per_month": 25}`, 10, 25},
		{"extra fields ignored", `{"request_quota_per_month": 3, "badge": "gold", "nested": {"x": 1}}`, 3, 0},
		{"missing fields", `{}`, 0, 0},
		{"null fields", `{"request_quota_per_month": null, "offer_quota_per_month": null}`, 0, 0},
		{"numeric strings are not numbers", `{"request_quota_per_month": "10"}`, 0, 0},
		{"booleans", `{"offer_quota_per_month": true}`, 0, 0},
		{"objects", `{"offer_quota_per_month": {"value": 5}}`, 0, 0},
		{"integral float", `{"request_quota_per_month": 10.0}`, 10, 0},
		{"fractional float truncates", `{"offer_quota_per_month": 7.9}`, 0, 7},
		{"negative clamps to zero", `{"request_quota_per_month": -5}`, 0, 0},
		{"huge float", `{"request_quota_per_month": 1e300}`, 0, 0},
		{"not an object", `[1, 2, 3]`, 0, 0},
		{"invalid json", `{"request_quota_per_month": `, 0, 0},
		{"empty document", ``, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := ParseFeatures([]byte(tc.raw))
			assert.Equal(t, tc.request, f.Limit(model.ActionCreateRequest))
			assert.Equal(t, tc.offer, f.Limit(model.ActionCreateOffer))
		})
	}
}

func TestFeaturesLimitUnknownAction(t *testing.T) {
	f := ParseFeatures([]byte(`{"request_quota_per_month": 10, "offer_quota_per_month": 10}`))
	assert.Equal(t, int64(0), f.Limit(model.ActionType("delete_everything")))
}
