package services

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/earsip/internal/common"
)

// Report periods.
const (
	PeriodAll     = "all"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
	PeriodCustom  = "custom"
)

// ReportPeriod is a validated report date range. Start and End are
// inclusive calendar dates; both are zero for PeriodAll.
type ReportPeriod struct {
	Type  string `json:"type"`
	Month int    `json:"month,omitempty"`
	Year  int    `json:"year,omitempty"`
	Start string `json:"startDate,omitempty"`
	End   string `json:"endDate,omitempty"`

	from, to time.Time
}

// ParseReportPeriod validates the report filter query parameters.
// An empty period means PeriodAll.
func ParseReportPeriod(period, month, year, startDate, endDate string) (ReportPeriod, error) {
	switch period {
	case "", PeriodAll:
		return ReportPeriod{Type: PeriodAll}, nil

	case PeriodMonthly:
		m, err := strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			return ReportPeriod{}, common.NewValidation("Bulan tidak valid")
		}
		y, err := parseYear(year)
		if err != nil {
			return ReportPeriod{}, err
		}
		from := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		return ReportPeriod{Type: PeriodMonthly, Month: m, Year: y,
			from: from, to: from.AddDate(0, 1, -1)}, nil

	case PeriodYearly:
		y, err := parseYear(year)
		if err != nil {
			return ReportPeriod{}, err
		}
		return ReportPeriod{Type: PeriodYearly, Year: y,
			from: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
			to:   time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)}, nil

	case PeriodCustom:
		from, err1 := time.Parse(time.DateOnly, startDate)
		to, err2 := time.Parse(time.DateOnly, endDate)
		if err1 != nil || err2 != nil {
			return ReportPeriod{}, common.NewValidation("Tanggal mulai dan tanggal akhir harus diisi (YYYY-MM-DD)")
		}
		if to.Before(from) {
			return ReportPeriod{}, common.NewValidation("Tanggal akhir harus setelah tanggal mulai")
		}
		return ReportPeriod{Type: PeriodCustom, Start: startDate, End: endDate, from: from, to: to}, nil
	}

	return ReportPeriod{}, common.NewValidation("Periode tidak valid")
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil || y < 1900 || y > 9999 {
		return 0, common.NewValidation("Tahun tidak valid")
	}
	return y, nil
}

// Range returns the inclusive date bounds, or nils for PeriodAll.
func (p ReportPeriod) Range() (*time.Time, *time.Time) {
	if p.from.IsZero() {
		return nil, nil
	}
	from, to := p.from, p.to
	return &from, &to
}
