package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportSince(t *testing.T) {
	now := time.Date(2025, 3, 14, 17, 45, 12, 0, time.UTC)

	assert.Equal(t,
		time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		reportSince("daily", now))

	assert.Equal(t,
		time.Date(2025, 3, 7, 17, 45, 12, 0, time.UTC),
		reportSince("weekly", now))

	assert.Equal(t,
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		reportSince("monthly", now))

	// Tanınmayan tip ve "all" filtre uygulanmaz
	assert.True(t, reportSince("all", now).IsZero())
	assert.True(t, reportSince("", now).IsZero())
}
