package models

import "time"

// LetterFilter narrows letter listings. Zero values mean "no restriction".
// From and To bound the letter date inclusively.
type LetterFilter struct {
	Archived         bool
	Search           string
	ClassificationID *int64
	From             *time.Time
	To               *time.Time
}
