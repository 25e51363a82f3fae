package source

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/exportatlas/internal/catalog"
	"github.com/thesavant42/exportatlas/internal/config"
	"github.com/thesavant42/exportatlas/internal/db"
)

// Open picks the data source for cfg.Source:
//   - http:// or https:// URLs use the HTTP source
//   - .db / .sqlite files use the SQLite catalog
//   - anything else is read as a JSON file
//
// Release it with Close when done.
func Open(cfg config.Config, logger *log.Logger) (catalog.DataSource, error) {
	if config.IsURL(cfg.Source) {
		return NewHTTP(cfg.Source, cfg.HTTPTimeout, cfg.HTTPRetries, logger), nil
	}
	if IsDatabase(cfg.Source) {
		database, err := db.OpenExisting(cfg.Source)
		if err != nil {
			return nil, err
		}
		return database, nil
	}
	return NewFile(cfg.Source), nil
}

// IsDatabase reports whether path names a SQLite catalog file
func IsDatabase(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Watchable reports whether src is a local JSON file that can be watched
func Watchable(src catalog.DataSource) (string, bool) {
	f, ok := src.(*File)
	if !ok {
		return "", false
	}
	return f.Path, true
}

// Describe returns a one-line summary of a SQLite catalog's contents and
// import history. Other sources have nothing beyond their location, so
// Describe returns "".
func Describe(src catalog.DataSource) (string, error) {
	database, ok := src.(*db.DB)
	if !ok {
		return "", nil
	}
	return database.Summary()
}

// Close releases src if it holds resources
func Close(src catalog.DataSource) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
