package models

import "time"

// File is an attachment uploaded for a letter. Data is set when the bytes
// are kept in the database; StorageKey when they live in object storage.
type File struct {
	ID               string
	OriginalName     string
	FileType         string
	FileSize         int64
	Data             []byte
	StorageKey       *string
	UploadedByUserID string
	ReferenceType    string
	ReferenceID      string
	CreatedAt        time.Time
}

// fileContentTypes maps the stored short type to its MIME type.
var fileContentTypes = map[string]string{
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"xls":  "application/vnd.ms-excel",
	"csv":  "text/csv",
}

// FileTypeFromMIME returns the short type for an accepted MIME type.
func FileTypeFromMIME(mime string) (string, bool) {
	for short, m := range fileContentTypes {
		if m == mime {
			return short, true
		}
	}
	return "", false
}

// ContentType returns the MIME type for the file, defaulting to
// application/octet-stream.
func (f *File) ContentType() string {
	if ct, ok := fileContentTypes[f.FileType]; ok {
		return ct
	}
	return "application/octet-stream"
}

// FileURL is the API path serving the file.
func (f *File) FileURL() string {
	return "/api/files/" + f.ID
}
