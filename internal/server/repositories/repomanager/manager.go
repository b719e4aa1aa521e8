package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/earsip/internal/dbx"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/classifications"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/faqs"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/files"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/letters"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same repositories on a *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Letters(db dbx.DBTX) letters.Repository
	Classifications(db dbx.DBTX) classifications.Repository
	Files(db dbx.DBTX) files.Repository
	FAQs(db dbx.DBTX) faqs.Repository
}
