package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/dmitrijs2005/earsip/internal/server/models"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const msgIncomplete = "Data tidak lengkap"

// LetterInput is the create/update form of a letter. Party is the sender
// (incoming) or destination (outgoing); Date is YYYY-MM-DD.
type LetterInput struct {
	LetterNumber      string
	Party             string
	Date              string
	Subject           string
	ClassificationID  *int64
	NumberOfCopies    int
	ArchiveFileNumber string
	IsArchived        bool
}

// Report is the result of a filtered report query.
type Report struct {
	Kind   models.LetterKind `json:"kind"`
	Period ReportPeriod      `json:"period"`
	Total  int               `json:"total"`
	Rows   []*models.Letter  `json:"rows"`
}

// LetterService manages incoming and outgoing letters.
type LetterService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewLetterService(db *sql.DB, m repomanager.RepositoryManager) *LetterService {
	return &LetterService{db: db, repomanager: m}
}

// List returns letters of kind matching filter, newest first.
func (s *LetterService) List(ctx context.Context, kind models.LetterKind, filter models.LetterFilter) ([]*models.Letter, error) {
	return s.repomanager.Letters(s.db).List(ctx, kind, filter)
}

// Get returns one letter. An id that is not a UUID resolves to nothing.
func (s *LetterService) Get(ctx context.Context, kind models.LetterKind, id string) (*models.Letter, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Letters(s.db).Get(ctx, kind, id)
}

// Create records a new letter stamped with the recording user's id.
func (s *LetterService) Create(ctx context.Context, kind models.LetterKind, userID string, in LetterInput) (*models.Letter, error) {
	l, err := in.toLetter(kind)
	if err != nil {
		return nil, err
	}
	l.ID = uuid.NewString()
	l.RecordedByUserID = userID
	l.IsArchived = false

	if err := s.repomanager.Letters(s.db).Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Update replaces every editable field of the letter, including its
// archived flag.
func (s *LetterService) Update(ctx context.Context, kind models.LetterKind, id string, in LetterInput) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	l, err := in.toLetter(kind)
	if err != nil {
		return err
	}
	l.ID = id
	return s.repomanager.Letters(s.db).Update(ctx, l)
}

func (s *LetterService) Delete(ctx context.Context, kind models.LetterKind, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	return s.repomanager.Letters(s.db).Delete(ctx, kind, id)
}

// Report lists archived letters of kind within period.
func (s *LetterService) Report(ctx context.Context, kind models.LetterKind, period ReportPeriod, filter models.LetterFilter) (*Report, error) {
	filter.Archived = true
	filter.From, filter.To = period.Range()

	rows, err := s.repomanager.Letters(s.db).List(ctx, kind, filter)
	if err != nil {
		return nil, err
	}
	return &Report{Kind: kind, Period: period, Total: len(rows), Rows: rows}, nil
}

func (in LetterInput) toLetter(kind models.LetterKind) (*models.Letter, error) {
	if in.LetterNumber == "" || in.Party == "" || in.Date == "" || in.Subject == "" {
		return nil, common.NewValidation(msgIncomplete)
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, common.NewValidation("Format tanggal tidak valid")
	}

	copies := in.NumberOfCopies
	if copies <= 0 {
		copies = 1
	}

	return &models.Letter{
		Kind:              kind,
		LetterNumber:      in.LetterNumber,
		Party:             in.Party,
		Date:              date,
		Subject:           in.Subject,
		ClassificationID:  in.ClassificationID,
		NumberOfCopies:    copies,
		ArchiveFileNumber: optional(in.ArchiveFileNumber),
		IsArchived:        in.IsArchived,
	}, nil
}

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp and keeps the
// calendar date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// validID reports whether id can name a row in a UUID-keyed table.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}
