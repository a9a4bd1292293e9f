package commands

import (
	"database/sql"

	"github.com/teranos/chimera/am"
	"github.com/teranos/chimera/db"
	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/logger"
)

// openDatabase opens and migrates a database using the specified path.
// If dbPath is empty, it loads from am config. Uses logger.Logger for db operations.
func openDatabase(dbPath string) (*sql.DB, error) {
	if dbPath == "" {
		path, err := am.GetDatabasePath()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get database path")
		}
		if path == "" {
			dbPath = "chimera.db"
		} else {
			dbPath = path
		}
	}

	database, err := db.Open(dbPath, logger.Logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}

	if err := db.Migrate(database, logger.Logger); err != nil {
		database.Close()
		return nil, errors.Wrapf(err, "failed to run migrations on %s", dbPath)
	}

	return database, nil
}
