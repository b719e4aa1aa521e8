// Package letters implements PostgreSQL storage for incoming and outgoing letters.
package letters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

// selectLetters builds the joined SELECT for kind. Table and column names
// come from models.LetterKind and never from user input.
func selectLetters(kind models.LetterKind) string {
	return fmt.Sprintf(
		`SELECT l.id, l.letter_number, l.%[2]s, l.%[3]s, l.subject, l.file_url,
		        l.classification_id, l.number_of_copies, l.archive_file_number,
		        l.is_archived, l.recorded_by_user_id, l.created_at, l.updated_at,
		        c.code, c.description
		 FROM %[1]s l
		 LEFT JOIN classifications c ON l.classification_id = c.id`,
		kind.Table(), kind.PartyColumn(), kind.DateColumn())
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLetter(kind models.LetterKind, row scanner) (*models.Letter, error) {
	l := &models.Letter{Kind: kind}
	var (
		fileURL, archiveNo, code, desc sql.NullString
		classID                        sql.NullInt64
	)

	err := row.Scan(
		&l.ID, &l.LetterNumber, &l.Party, &l.Date, &l.Subject, &fileURL,
		&classID, &l.NumberOfCopies, &archiveNo,
		&l.IsArchived, &l.RecordedByUserID, &l.CreatedAt, &l.UpdatedAt,
		&code, &desc,
	)
	if err != nil {
		return nil, err
	}

	l.FileURL = nullString(fileURL)
	l.ArchiveFileNumber = nullString(archiveNo)
	l.ClassificationCode = nullString(code)
	l.ClassificationDetail = nullString(desc)
	if classID.Valid {
		id := classID.Int64
		l.ClassificationID = &id
	}
	return l, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// List returns letters of kind matching filter, newest first. Search is a
// case-insensitive substring match over letter number, subject and party.
func (r *PostgresRepository) List(ctx context.Context, kind models.LetterKind, filter models.LetterFilter) ([]*models.Letter, error) {
	var sb strings.Builder
	sb.WriteString(selectLetters(kind))
	sb.WriteString("\n\t\t WHERE l.is_archived = $1")
	args := []any{filter.Archived}

	if filter.ClassificationID != nil {
		args = append(args, *filter.ClassificationID)
		fmt.Fprintf(&sb, " AND l.classification_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		fmt.Fprintf(&sb, " AND (l.letter_number ILIKE $%d OR l.subject ILIKE $%d OR l.%s ILIKE $%d)",
			n, n, kind.PartyColumn(), n)
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		fmt.Fprintf(&sb, " AND l.%s >= $%d", kind.DateColumn(), len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		fmt.Fprintf(&sb, " AND l.%s <= $%d", kind.DateColumn(), len(args))
	}
	sb.WriteString(" ORDER BY l.created_at DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Letter, 0)
	for rows.Next() {
		l, err := scanLetter(kind, rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, kind models.LetterKind, id string) (*models.Letter, error) {
	query := selectLetters(kind) + "\n\t\t WHERE l.id = $1"

	l, err := scanLetter(kind, r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, lookupError(err)
	}
	return l, nil
}

func (r *PostgresRepository) Create(ctx context.Context, l *models.Letter) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, letter_number, %s, %s, subject, classification_id,
		                 number_of_copies, archive_file_number, recorded_by_user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		l.Kind.Table(), l.Kind.PartyColumn(), l.Kind.DateColumn())

	err := r.db.QueryRowContext(ctx, query,
		l.ID, l.LetterNumber, l.Party, l.Date, l.Subject, l.ClassificationID,
		l.NumberOfCopies, l.ArchiveFileNumber, l.RecordedByUserID,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, l *models.Letter) error {
	query := fmt.Sprintf(
		`UPDATE %s
		 SET letter_number = $1, %s = $2, %s = $3, subject = $4, classification_id = $5,
		     number_of_copies = $6, archive_file_number = $7, is_archived = $8, updated_at = now()
		 WHERE id = $9`,
		l.Kind.Table(), l.Kind.PartyColumn(), l.Kind.DateColumn())

	res, err := r.db.ExecContext(ctx, query,
		l.LetterNumber, l.Party, l.Date, l.Subject, l.ClassificationID,
		l.NumberOfCopies, l.ArchiveFileNumber, l.IsArchived, l.ID,
	)
	if err != nil {
		return lookupError(err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, kind models.LetterKind, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+kind.Table()+` WHERE id = $1`, id)
	if err != nil {
		return lookupError(err)
	}
	return expectOneRow(res)
}

// SetFileURL points the letter at an uploaded attachment.
func (r *PostgresRepository) SetFileURL(ctx context.Context, kind models.LetterKind, id, url string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE `+kind.Table()+` SET file_url = $1, updated_at = now() WHERE id = $2`, url, id)
	if err != nil {
		return lookupError(err)
	}
	return expectOneRow(res)
}

// Count returns the number of letters of kind; archived == nil counts all.
func (r *PostgresRepository) Count(ctx context.Context, kind models.LetterKind, archived *bool) (int64, error) {
	query := `SELECT COUNT(*) FROM ` + kind.Table()
	var args []any
	if archived != nil {
		query += ` WHERE is_archived = $1`
		args = append(args, *archived)
	}

	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
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

// lookupError treats an id that is not a UUID like an id with no row.
func lookupError(err error) error {
	if dbx.InvalidInput(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}
