// Package faqs reads the help-page questions.
package faqs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/earsip/internal/dbx"
	"github.com/dmitrijs2005/earsip/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns all FAQs in display order.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.FAQ, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question, answer, sort_order, created_at, updated_at
		 FROM faqs ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.FAQ, 0)
	for rows.Next() {
		f := &models.FAQ{}
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.SortOrder, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
