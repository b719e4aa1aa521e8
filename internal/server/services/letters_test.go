package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/dmitrijs2005/earsip/internal/server/models"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incoming(number, date, subject string) LetterInput {
	return LetterInput{LetterNumber: number, Party: "Dinas Pendidikan", Date: date, Subject: subject}
}

func TestLetterService_CreateAndGet(t *testing.T) {
	rm := repotest.New()
	svc := NewLetterService(nil, rm)
	ctx := context.Background()

	l, err := svc.Create(ctx, models.Incoming, "user-1", LetterInput{
		LetterNumber: "001/SM/2024", Party: "Dinas Pendidikan", Date: "2024-03-05",
		Subject: "Undangan Rapat", IsArchived: true, ArchiveFileNumber: "B-12",
	})
	require.NoError(t, err)
	assert.Len(t, l.ID, 36)
	assert.Equal(t, "user-1", l.RecordedByUserID)
	assert.Equal(t, 1, l.NumberOfCopies)
	assert.False(t, l.IsArchived, "new letters start outside the archive")

	got, err := svc.Get(ctx, models.Incoming, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "001/SM/2024", got.LetterNumber)
	assert.Equal(t, "B-12", *got.ArchiveFileNumber)
	assert.True(t, got.Date.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))

	_, err = svc.Get(ctx, models.Outgoing, l.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLetterService_CreateValidation(t *testing.T) {
	svc := NewLetterService(nil, repotest.New())

	tests := []struct {
		name string
		in   LetterInput
	}{
		{"missing number", LetterInput{Party: "X", Date: "2024-01-01", Subject: "S"}},
		{"missing party", LetterInput{LetterNumber: "1", Date: "2024-01-01", Subject: "S"}},
		{"missing date", LetterInput{LetterNumber: "1", Party: "X", Subject: "S"}},
		{"missing subject", LetterInput{LetterNumber: "1", Party: "X", Date: "2024-01-01"}},
		{"bad date", LetterInput{LetterNumber: "1", Party: "X", Date: "05/03/2024", Subject: "S"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), models.Outgoing, "u", tt.in)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestLetterService_ListFiltersAndOrder(t *testing.T) {
	rm := repotest.New()
	svc := NewLetterService(nil, rm)
	ctx := context.Background()

	first, err := svc.Create(ctx, models.Incoming, "u", incoming("001", "2024-01-10", "Undangan"))
	require.NoError(t, err)
	second, err := svc.Create(ctx, models.Incoming, "u", incoming("002", "2024-02-10", "Laporan"))
	require.NoError(t, err)
	archived, err := svc.Create(ctx, models.Incoming, "u", incoming("003", "2024-03-10", "Undangan Seminar"))
	require.NoError(t, err)

	in := incoming("003", "2024-03-10", "Undangan Seminar")
	in.IsArchived = true
	require.NoError(t, svc.Update(ctx, models.Incoming, archived.ID, in))

	active, err := svc.List(ctx, models.Incoming, models.LetterFilter{})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, second.ID, active[0].ID)
	assert.Equal(t, first.ID, active[1].ID)

	found, err := svc.List(ctx, models.Incoming, models.LetterFilter{Archived: true, Search: "seminar"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, archived.ID, found[0].ID)

	none, err := svc.List(ctx, models.Outgoing, models.LetterFilter{})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestLetterService_UpdateDelete(t *testing.T) {
	rm := repotest.New()
	svc := NewLetterService(nil, rm)
	ctx := context.Background()

	l, err := svc.Create(ctx, models.Outgoing, "u", LetterInput{LetterNumber: "010/SK", Party: "Kecamatan", Date: "2024-05-01", Subject: "Balasan"})
	require.NoError(t, err)

	err = svc.Update(ctx, models.Outgoing, l.ID, LetterInput{LetterNumber: "010/SK", Party: "Kecamatan", Date: "2024-05-02", Subject: "Balasan", NumberOfCopies: 3})
	require.NoError(t, err)

	got, err := svc.Get(ctx, models.Outgoing, l.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.NumberOfCopies)
	assert.Equal(t, "u", got.RecordedByUserID)

	assert.ErrorIs(t, svc.Update(ctx, models.Outgoing, l.ID, LetterInput{}), common.ErrorValidation)
	assert.ErrorIs(t, svc.Update(ctx, models.Outgoing, "missing", incoming("1", "2024-01-01", "S")), common.ErrorNotFound)

	require.NoError(t, svc.Delete(ctx, models.Outgoing, l.ID))
	assert.ErrorIs(t, svc.Delete(ctx, models.Outgoing, l.ID), common.ErrorNotFound)
}

func TestLetterService_MalformedIDIsNotFound(t *testing.T) {
	svc := NewLetterService(nil, repotest.New())
	ctx := context.Background()

	for _, id := range []string{"abc", "", "1", "not-a-uuid-at-all"} {
		_, err := svc.Get(ctx, models.Incoming, id)
		assert.ErrorIs(t, err, common.ErrorNotFound, "get %q", id)
		assert.ErrorIs(t, svc.Update(ctx, models.Incoming, id, incoming("1", "2024-01-01", "S")), common.ErrorNotFound, "update %q", id)
		assert.ErrorIs(t, svc.Delete(ctx, models.Incoming, id), common.ErrorNotFound, "delete %q", id)
	}
}

func TestLetterService_Report(t *testing.T) {
	rm := repotest.New()
	svc := NewLetterService(nil, rm)
	ctx := context.Background()

	for _, d := range []string{"2024-01-31", "2024-02-01", "2024-02-29", "2024-03-01"} {
		in := incoming("N-"+d, d, "Arsip")
		l, err := svc.Create(ctx, models.Incoming, "u", in)
		require.NoError(t, err)
		in.IsArchived = true
		require.NoError(t, svc.Update(ctx, models.Incoming, l.ID, in))
	}
	_, err := svc.Create(ctx, models.Incoming, "u", incoming("active", "2024-02-15", "Aktif"))
	require.NoError(t, err)

	period, err := ParseReportPeriod(PeriodMonthly, "2", "2024", "", "")
	require.NoError(t, err)

	rep, err := svc.Report(ctx, models.Incoming, period, models.LetterFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Total)
	for _, l := range rep.Rows {
		assert.True(t, l.IsArchived)
		assert.Equal(t, time.February, l.Date.Month())
	}

	all, err := svc.Report(ctx, models.Incoming, ReportPeriod{Type: PeriodAll}, models.LetterFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Total)
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-03-05")
	require.NoError(t, err)
	assert.True(t, d.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))

	d, err = parseDate("2024-03-05T17:30:00Z")
	require.NoError(t, err)
	assert.True(t, d.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)))

	_, err = parseDate("kemarin")
	assert.Error(t, err)
}
