package services

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportPeriod(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name                            string
		period, month, year, start, end string
		from, to                        time.Time
	}{
		{name: "monthly leap february", period: "monthly", month: "2", year: "2024", from: day(2024, 2, 1), to: day(2024, 2, 29)},
		{name: "monthly december", period: "monthly", month: "12", year: "2023", from: day(2023, 12, 1), to: day(2023, 12, 31)},
		{name: "yearly", period: "yearly", year: "2022", from: day(2022, 1, 1), to: day(2022, 12, 31)},
		{name: "custom", period: "custom", start: "2024-01-15", end: "2024-01-15", from: day(2024, 1, 15), to: day(2024, 1, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseReportPeriod(tt.period, tt.month, tt.year, tt.start, tt.end)
			require.NoError(t, err)
			from, to := p.Range()
			require.NotNil(t, from)
			require.NotNil(t, to)
			assert.True(t, from.Equal(tt.from), "from %v", from)
			assert.True(t, to.Equal(tt.to), "to %v", to)
		})
	}
}

func TestParseReportPeriod_All(t *testing.T) {
	for _, period := range []string{"", "all"} {
		p, err := ParseReportPeriod(period, "", "", "", "")
		require.NoError(t, err)
		assert.Equal(t, PeriodAll, p.Type)
		from, to := p.Range()
		assert.Nil(t, from)
		assert.Nil(t, to)
	}
}

func TestParseReportPeriod_Invalid(t *testing.T) {
	tests := []struct {
		name                            string
		period, month, year, start, end string
	}{
		{"unknown period", "weekly", "", "", "", ""},
		{"month zero", "monthly", "0", "2024", "", ""},
		{"month thirteen", "monthly", "13", "2024", "", ""},
		{"month not a number", "monthly", "feb", "2024", "", ""},
		{"missing year", "yearly", "", "", "", ""},
		{"custom missing end", "custom", "", "", "2024-01-01", ""},
		{"custom reversed", "custom", "", "", "2024-02-01", "2024-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReportPeriod(tt.period, tt.month, tt.year, tt.start, tt.end)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}
