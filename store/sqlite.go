package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"newsview/block"
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	id      TEXT PRIMARY KEY,
	body    BLOB NOT NULL,
	updated INTEGER NOT NULL
)`

// SQLite is local content store keeping documents as JSON blobs. Single
// connection is shared and serialized.
type SQLite struct {
	mu    sync.Mutex
	conn  *sqlite.Conn
	theme block.Theme
	log   *zap.Logger
}

// OpenSQLite opens (creating when necessary) store database.
func OpenSQLite(path string, theme block.Theme, log *zap.Logger) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("content store database path is not configured")
	}
	conn, err := sqlite.OpenConn(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open content store database: %w", err)
	}
	if err := sqlitex.ExecuteTransient(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare content store database: %w", err)
	}
	return &SQLite{conn: conn, theme: theme, log: log.Named("store")}, nil
}

// Put stores document replacing previous version. Body must be a document
// envelope, problems with individual blocks are tolerated.
func (s *SQLite) Put(id string, body []byte) error {
	if id == "" {
		return errors.New("empty document identifier")
	}
	if _, _, err := block.DecodeBytes(body, s.theme); err != nil {
		return fmt.Errorf("refusing to store document %q: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := sqlitex.Execute(s.conn,
		`INSERT INTO documents (id, body, updated) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated = excluded.updated`,
		&sqlitex.ExecOptions{Args: []any{id, body, time.Now().Unix()}})
	if err != nil {
		return fmt.Errorf("unable to store document %q: %w", id, err)
	}
	s.log.Debug("Document stored", zap.String("id", id), zap.Int("size", len(body)))
	return nil
}

// Raw returns stored document body as is.
func (s *SQLite) Raw(ctx context.Context, id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	var (
		body  []byte
		found bool
	)
	err := sqlitex.Execute(s.conn, `SELECT body FROM documents WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				data, err := io.ReadAll(stmt.ColumnReader(0))
				if err != nil {
					return err
				}
				body, found = data, true
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("unable to read document %q: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return body, nil
}

func (s *SQLite) Fetch(ctx context.Context, id string) (*block.Document, error) {
	body, err := s.Raw(ctx, id)
	if err != nil {
		return nil, err
	}
	return decode(bytes.NewReader(body), id, s.theme, s.log)
}

// List returns identifiers of all stored documents in natural order.
func (s *SQLite) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conn.SetInterrupt(ctx.Done())
	defer s.conn.SetInterrupt(nil)

	var ids []string
	err := sqlitex.Execute(s.conn, `SELECT id FROM documents`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			ids = append(ids, stmt.ColumnText(0))
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("unable to list documents: %w", err)
	}
	sort.Sort(natural.StringSlice(ids))
	return ids, nil
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
