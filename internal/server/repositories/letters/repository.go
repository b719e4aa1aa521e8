package letters

import (
	"context"

	"github.com/dmitrijs2005/earsip/internal/server/models"
)

// Repository stores incoming and outgoing letters. Every method takes the
// letter kind, which selects the table.
type Repository interface {
	List(ctx context.Context, kind models.LetterKind, filter models.LetterFilter) ([]*models.Letter, error)
	Get(ctx context.Context, kind models.LetterKind, id string) (*models.Letter, error)
	Create(ctx context.Context, letter *models.Letter) error
	Update(ctx context.Context, letter *models.Letter) error
	Delete(ctx context.Context, kind models.LetterKind, id string) error
	SetFileURL(ctx context.Context, kind models.LetterKind, id, url string) error
	Count(ctx context.Context, kind models.LetterKind, archived *bool) (int64, error)
}
