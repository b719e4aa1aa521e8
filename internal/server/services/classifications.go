package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/dmitrijs2005/earsip/internal/server/models"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/repomanager"
)

// ClassificationInput is the create/update form of a classification code.
type ClassificationInput struct {
	Code          string
	Description   string
	ShelfLocation string
}

type ClassificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewClassificationService(db *sql.DB, m repomanager.RepositoryManager) *ClassificationService {
	return &ClassificationService{db: db, repomanager: m}
}

func (s *ClassificationService) List(ctx context.Context) ([]*models.Classification, error) {
	return s.repomanager.Classifications(s.db).List(ctx)
}

func (s *ClassificationService) Get(ctx context.Context, id int64) (*models.Classification, error) {
	return s.repomanager.Classifications(s.db).Get(ctx, id)
}

// Create adds a code. A duplicate code yields *common.ConflictError.
func (s *ClassificationService) Create(ctx context.Context, in ClassificationInput) (*models.Classification, error) {
	c, err := in.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.repomanager.Classifications(s.db).Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ClassificationService) Update(ctx context.Context, id int64, in ClassificationInput) (*models.Classification, error) {
	c, err := in.toModel()
	if err != nil {
		return nil, err
	}
	c.ID = id

	repo := s.repomanager.Classifications(s.db)
	if err := repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

func (s *ClassificationService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Classifications(s.db).Delete(ctx, id)
}

func (in ClassificationInput) toModel() (*models.Classification, error) {
	if in.Code == "" || in.Description == "" {
		return nil, common.NewValidation("Kode dan deskripsi harus diisi")
	}
	return &models.Classification{
		Code:          in.Code,
		Description:   in.Description,
		ShelfLocation: optional(in.ShelfLocation),
	}, nil
}
