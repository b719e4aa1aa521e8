// Package files stores letter attachments and their metadata.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/dmitrijs2005/earsip/internal/dbx"
	"github.com/dmitrijs2005/earsip/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the file row. Either f.Data or f.StorageKey must be set.
func (r *PostgresRepository) Create(ctx context.Context, f *models.File) error {
	query :=
		`INSERT INTO files (id, original_name, file_data, storage_key, file_type, file_size,
		                    uploaded_by_user_id, reference_type, reference_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		f.ID, f.OriginalName, f.Data, f.StorageKey, f.FileType, f.FileSize,
		f.UploadedByUserID, f.ReferenceType, f.ReferenceID,
	).Scan(&f.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.File, error) {
	query :=
		`SELECT id, original_name, file_data, storage_key, file_type, file_size,
		        uploaded_by_user_id, reference_type, reference_id, created_at
		 FROM files WHERE id = $1`

	f := &models.File{}
	var key sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID, &f.OriginalName, &f.Data, &key, &f.FileType, &f.FileSize,
		&f.UploadedByUserID, &f.ReferenceType, &f.ReferenceID, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.InvalidInput(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if key.Valid {
		f.StorageKey = &key.String
	}
	return f, nil
}
