package classifications

import (
	"context"

	"github.com/dmitrijs2005/earsip/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Classification, error)
	Get(ctx context.Context, id int64) (*models.Classification, error)
	Create(ctx context.Context, c *models.Classification) error
	Update(ctx context.Context, c *models.Classification) error
	Delete(ctx context.Context, id int64) error
}
