package faqs

import (
	"context"

	"github.com/dmitrijs2005/earsip/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.FAQ, error)
}
