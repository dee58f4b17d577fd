// Package store provides content stores documents are fetched from by
// identifier: remote HTTP content service and local sqlite database.
package store

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"newsview/block"
	"newsview/config"
	"newsview/loader"
)

// ErrNotFound is returned when store has no document with requested
// identifier.
var ErrNotFound = errors.New("document not found")

// Store is a document fetcher holding resources which must be released.
type Store interface {
	loader.Fetcher
	Close() error
}

// Open creates store selected by configuration. For kind "none" it returns
// nil Store and nil error, such programs could only render preview state.
func Open(cfg *config.StoreConfig, theme block.Theme, log *zap.Logger) (Store, error) {
	switch cfg.Kind {
	case "http":
		s, err := NewHTTP(&cfg.HTTP, theme, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		s, err := OpenSQLite(cfg.SQLite.Path, theme, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "none", "":
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported content store kind %q", cfg.Kind)
}

func decode(r io.Reader, id string, theme block.Theme, log *zap.Logger) (*block.Document, error) {
	doc, warnings, err := block.Decode(r, theme)
	if err != nil {
		return nil, fmt.Errorf("unable to decode document %q: %w", id, err)
	}
	for _, w := range warnings {
		log.Debug("Document has problems", zap.String("id", id), zap.Error(w))
	}
	return doc, nil
}
