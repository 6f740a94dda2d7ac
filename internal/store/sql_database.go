package store

import (
	"database/sql"

	"github.com/MKhiriev/vosh/internal/logger"
	"github.com/MKhiriev/vosh/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
