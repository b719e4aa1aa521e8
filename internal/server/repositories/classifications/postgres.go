// Package classifications stores the archive code taxonomy.
package classifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/dmitrijs2005/earsip/internal/dbx"
	"github.com/dmitrijs2005/earsip/internal/server/models"
)

const columns = `id, code, description, shelf_location, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scan(row interface{ Scan(...any) error }) (*models.Classification, error) {
	c := &models.Classification{}
	var shelf sql.NullString
	if err := row.Scan(&c.ID, &c.Code, &c.Description, &shelf, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if shelf.Valid {
		c.ShelfLocation = &shelf.String
	}
	return c, nil
}

// List returns all classifications ordered by code.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.Classification, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM classifications ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Classification, 0)
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Classification, error) {
	c, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM classifications WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Classification) error {
	query :=
		`INSERT INTO classifications (code, description, shelf_location)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, c.Code, c.Description, c.ShelfLocation).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Classification) error {
	query :=
		`UPDATE classifications
		 SET code = $1, description = $2, shelf_location = $3, updated_at = now()
		 WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, c.Code, c.Description, c.ShelfLocation, c.ID)
	if err != nil {
		return mapWriteError(err)
	}
	return expectOneRow(res)
}

// Delete removes the classification. Letters referencing it keep existing
// with classification_id set to NULL by the foreign key.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM classifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func mapWriteError(err error) error {
	if _, ok := dbx.UniqueViolation(err); ok {
		return common.NewConflict("code")
	}
	return fmt.Errorf("db error: %w", err)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
