package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophmedia/internal/dbx"
	"github.com/dmitrijs2005/gophmedia/internal/server/repositories/assets"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Assets(db dbx.DBTX) assets.Repository
}
