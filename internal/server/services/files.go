package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/dmitrijs2005/earsip/internal/dbx"
	"github.com/dmitrijs2005/earsip/internal/logging"
	"github.com/dmitrijs2005/earsip/internal/server/models"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/earsip/internal/server/storage"
	"github.com/google/uuid"
)

// UploadInput is an attachment received from the upload form.
type UploadInput struct {
	Name          string
	MIMEType      string
	Data          []byte
	ReferenceType string
	ReferenceID   string
	UserID        string
}

// FileService stores letter attachments. With a nil BlobStore the bytes are
// kept in the files table.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	maxSize     int64
	logger      logging.Logger
	now         func() time.Time
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore, maxSize int64, logger logging.Logger) *FileService {
	return &FileService{db: db, repomanager: m, blobs: blobs, maxSize: maxSize, logger: logger, now: time.Now}
}

// Upload validates and stores an attachment, then points the referenced
// letter's file_url at it. The file row and the letter update share one
// transaction; an unknown letter yields common.ErrorNotFound.
func (s *FileService) Upload(ctx context.Context, in UploadInput) (*models.File, error) {
	if len(in.Data) == 0 {
		return nil, common.NewValidation("No file provided")
	}
	kind, ok := models.KindFromReference(in.ReferenceType)
	if !ok {
		return nil, common.NewValidation("Invalid reference type")
	}
	if in.ReferenceID == "" {
		return nil, common.NewValidation("Invalid reference id")
	}
	if int64(len(in.Data)) > s.maxSize {
		return nil, common.NewValidation(fmt.Sprintf("File size exceeds %dMB limit", s.maxSize>>20))
	}
	fileType, ok := models.FileTypeFromMIME(in.MIMEType)
	if !ok {
		return nil, common.NewValidation("File type not allowed")
	}
	if !validID(in.ReferenceID) {
		return nil, common.ErrorNotFound
	}

	f := &models.File{
		ID:               uuid.NewString(),
		OriginalName:     in.Name,
		FileType:         fileType,
		FileSize:         int64(len(in.Data)),
		UploadedByUserID: in.UserID,
		ReferenceType:    in.ReferenceType,
		ReferenceID:      in.ReferenceID,
	}

	if s.blobs != nil {
		key := storage.NewKey(s.now())
		if err := s.blobs.Put(ctx, key, in.Data, f.ContentType()); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		f.StorageKey = &key
	} else {
		f.Data = in.Data
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Letters(tx).SetFileURL(ctx, kind, in.ReferenceID, f.FileURL()); err != nil {
			return err
		}
		return s.repomanager.Files(tx).Create(ctx, f)
	})
	if err != nil {
		if f.StorageKey != nil {
			if delErr := s.blobs.Delete(ctx, *f.StorageKey); delErr != nil {
				s.logger.Warn(ctx, "orphaned attachment blob", "key", *f.StorageKey, "error", delErr)
			}
		}
		return nil, err
	}

	return f, nil
}

// Get returns the file with its bytes loaded from wherever they are kept.
func (s *FileService) Get(ctx context.Context, id string) (*models.File, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	f, err := s.repomanager.Files(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if f.StorageKey != nil && f.Data == nil {
		if s.blobs == nil {
			return nil, fmt.Errorf("%w: file %s lives in object storage, none configured", common.ErrorInternal, id)
		}
		data, err := s.blobs.Get(ctx, *f.StorageKey)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorNotFound
			}
			return nil, err
		}
		f.Data = data
	}
	return f, nil
}
