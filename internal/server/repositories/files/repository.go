package files

import (
	"context"

	"github.com/dmitrijs2005/earsip/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, f *models.File) error
	Get(ctx context.Context, id string) (*models.File, error)
}
