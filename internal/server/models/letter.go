package models

import (
	"encoding/json"
	"time"
)

// LetterKind distinguishes incoming from outgoing correspondence.
type LetterKind string

const (
	Incoming LetterKind = "incoming"
	Outgoing LetterKind = "outgoing"
)

// Valid reports whether k names a known kind.
func (k LetterKind) Valid() bool {
	return k == Incoming || k == Outgoing
}

// Table returns the table holding letters of this kind.
func (k LetterKind) Table() string {
	if k == Outgoing {
		return "outgoing_letters"
	}
	return "incoming_letters"
}

// PartyColumn is "sender" for incoming letters and "destination" for outgoing ones.
func (k LetterKind) PartyColumn() string {
	if k == Outgoing {
		return "destination"
	}
	return "sender"
}

// DateColumn is "incoming_date" or "outgoing_date".
func (k LetterKind) DateColumn() string {
	if k == Outgoing {
		return "outgoing_date"
	}
	return "incoming_date"
}

// ReferenceType is the files.reference_type value pointing at this kind.
func (k LetterKind) ReferenceType() string {
	if k == Outgoing {
		return "outgoing_letter"
	}
	return "incoming_letter"
}

// KindFromReference maps a files.reference_type value back to a kind.
func KindFromReference(ref string) (LetterKind, bool) {
	switch ref {
	case "incoming_letter":
		return Incoming, true
	case "outgoing_letter":
		return Outgoing, true
	}
	return "", false
}

// Letter is an incoming or outgoing letter. Party holds the sender of an
// incoming letter or the destination of an outgoing one; Date likewise.
type Letter struct {
	Kind                 LetterKind
	ID                   string
	LetterNumber         string
	Party                string
	Date                 time.Time
	Subject              string
	FileURL              *string
	ClassificationID     *int64
	NumberOfCopies       int
	ArchiveFileNumber    *string
	IsArchived           bool
	RecordedByUserID     string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	ClassificationCode   *string
	ClassificationDetail *string
}

// MarshalJSON renders the letter with the column names of its table, so an
// incoming letter carries "sender"/"incoming_date" and an outgoing one
// "destination"/"outgoing_date".
func (l Letter) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"id":                  l.ID,
		"letter_number":       l.LetterNumber,
		l.Kind.PartyColumn():  l.Party,
		l.Kind.DateColumn():   l.Date.Format(time.DateOnly),
		"subject":             l.Subject,
		"file_url":            l.FileURL,
		"classification_id":   l.ClassificationID,
		"number_of_copies":    l.NumberOfCopies,
		"archive_file_number": l.ArchiveFileNumber,
		"is_archived":         l.IsArchived,
		"recorded_by_user_id": l.RecordedByUserID,
		"created_at":          l.CreatedAt,
		"updated_at":          l.UpdatedAt,
		"code":                l.ClassificationCode,
		"description":         l.ClassificationDetail,
	}
	return json.Marshal(m)
}
