package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentPeriod(t *testing.T) {
	p := CurrentPeriod(time.Date(2025, time.March, 14, 18, 30, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), p.Start)
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), p.End)
	assert.Equal(t, "2025-03", p.Key())
}

func TestCurrentPeriodUsesUTC(t *testing.T) {
	tz := time.FixedZone("UTC+3", 3*60*60)
	// 1 April 01:00 at UTC+3 is still 31 March in UTC.
	p := CurrentPeriod(time.Date(2025, time.April, 1, 1, 0, 0, 0, tz))

	assert.Equal(t, "2025-03", p.Key())
}

func TestCurrentPeriodDecember(t *testing.T) {
	p := CurrentPeriod(time.Date(2024, time.December, 31, 23, 59, 59, 0, time.UTC))

	assert.Equal(t, "2024-12", p.Key())
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), p.End)
}
