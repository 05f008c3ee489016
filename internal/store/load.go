package store

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// IsSQLitePath reports whether path names a SQLite input by extension.
func IsSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// Load reads the record table at path. SQLite files (.db, .sqlite,
// .sqlite3) are read from opts.Table; anything else is parsed as CSV.
//
// The returned error is always a *LoadError.
func Load(ctx context.Context, path string, opts Options) (*Table, error) {
	opts = opts.withDefaults()

	info, err := os.Stat(path)
	if err != nil {
		return nil, openError(path, err)
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeUnreadable, Path: path, Message: "path is a directory"}
	}

	var t *Table
	if IsSQLitePath(path) {
		t, err = LoadSQLite(ctx, path, opts)
	} else {
		t, err = loadCSVFile(path, opts)
	}
	if err != nil {
		return nil, err
	}

	slog.Debug("table loaded",
		"path", path,
		"rows", t.Len(),
		"columns", len(t.Columns()),
		"key", t.KeyColumn(),
	)
	return t, nil
}

func loadCSVFile(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, openError(path, err)
	}
	defer f.Close()
	return LoadCSV(f, path, opts)
}

func openError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &LoadError{Code: ErrCodeMissingFile, Path: path, Message: "file not found", Err: err}
	}
	return &LoadError{Code: ErrCodeUnreadable, Path: path, Message: "cannot open file", Err: err}
}
