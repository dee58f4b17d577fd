// Package loader resolves document of a view either from supplied preview
// state or by fetching it from content store.
//
// Every load request gets a generation token. Only the latest request of a
// view may commit its result, so a slow fetch never overwrites state of a
// newer request.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"newsview/block"
)

// ErrSuperseded is returned by Wait when a newer load was started on the
// view before the awaited one settled.
var ErrSuperseded = errors.New("load superseded by newer request")

// Fetcher retrieves document by identifier from content store.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (*block.Document, error)
}

// FetcherFunc adapts function to Fetcher.
type FetcherFunc func(ctx context.Context, id string) (*block.Document, error)

func (f FetcherFunc) Fetch(ctx context.Context, id string) (*block.Document, error) {
	return f(ctx, id)
}

// Status of the view.
type Status int

const (
	Pending Status = iota
	Empty
	Failed
	Ready
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Source describes where the document comes from. Preview wins over ID,
// when neither is set the view is empty.
type Source struct {
	Preview *block.Document
	ID      string
}

// Token identifies single load request of a view.
type Token uint64

// Snapshot is an immutable state of the view.
type Snapshot struct {
	Token  Token
	Status Status
	ID     string
	Doc    *block.Document
	Err    error
}

// Blocks returns document blocks, nil unless view is ready.
func (s Snapshot) Blocks() []block.Block {
	if s.Status != Ready || s.Doc == nil {
		return nil
	}
	return s.Doc.Blocks
}

// View keeps loading state of a single presentation.
type View struct {
	fetcher Fetcher
	theme   block.Theme
	log     *zap.Logger

	mu      sync.Mutex
	gen     Token
	snap    Snapshot
	cancel  context.CancelFunc
	changed chan struct{}
	closed  bool
}

// NewView creates view. Fetcher may be nil, then only preview sources could
// be loaded and identifiers settle as failed. Theme is used for documents
// without one.
func NewView(f Fetcher, theme block.Theme, log *zap.Logger) *View {
	return &View{
		fetcher: f,
		theme:   theme,
		log:     log.Named("loader"),
		snap:    Snapshot{Status: Empty},
		changed: make(chan struct{}),
	}
}

// Load starts new load cycle superseding any previous one. Preview and empty
// sources settle before Load returns, identifiers are fetched exactly once in
// background.
func (v *View) Load(ctx context.Context, src Source) Token {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.gen++
	tok := v.gen
	log := v.log.With(zap.Uint64("generation", uint64(tok)), zap.String("request", uuid.NewString()))

	switch {
	case v.closed:
		log.Debug("Load on closed view ignored")
		v.set(Snapshot{Token: tok, Status: Empty})
	case src.Preview != nil:
		log.Debug("Using preview state", zap.Int("blocks", len(src.Preview.Blocks)))
		v.set(v.settle(tok, "", src.Preview, nil, log))
	case src.ID == "":
		log.Debug("Nothing to load")
		v.set(Snapshot{Token: tok, Status: Empty})
	default:
		v.set(Snapshot{Token: tok, Status: Pending, ID: src.ID})
		fctx, cancel := context.WithCancel(ctx)
		v.cancel = cancel
		go v.fetch(fctx, cancel, tok, src.ID, log)
	}
	return tok
}

func (v *View) fetch(ctx context.Context, cancel context.CancelFunc, tok Token, id string, log *zap.Logger) {
	defer cancel()

	log.Debug("Fetching document", zap.String("id", id))
	var (
		doc *block.Document
		err error
	)
	if v.fetcher == nil {
		err = errors.New("no content store configured")
	} else {
		doc, err = v.fetcher.Fetch(ctx, id)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if tok != v.gen {
		log.Debug("Dropping stale load result", zap.String("id", id), zap.Uint64("current", uint64(v.gen)))
		return
	}
	v.cancel = nil
	v.set(v.settle(tok, id, doc, err, log))
}

func (v *View) settle(tok Token, id string, doc *block.Document, err error, log *zap.Logger) Snapshot {
	if err != nil {
		log.Error("Unable to load document", zap.String("id", id), zap.Error(err))
		return Snapshot{Token: tok, Status: Failed, ID: id, Err: err}
	}
	if doc == nil {
		return Snapshot{Token: tok, Status: Empty, ID: id}
	}
	if doc.Theme == "" {
		doc = &block.Document{Blocks: doc.Blocks, Theme: v.theme}
	} else if !doc.Theme.Known() {
		log.Debug("Unknown theme, light colors will be used", zap.String("theme", string(doc.Theme)))
	}
	if len(doc.Blocks) == 0 {
		return Snapshot{Token: tok, Status: Empty, ID: id, Doc: doc}
	}
	log.Debug("Document loaded", zap.String("id", id), zap.Int("blocks", len(doc.Blocks)), zap.String("theme", string(doc.Theme)))
	return Snapshot{Token: tok, Status: Ready, ID: id, Doc: doc}
}

// set must be called with lock held.
func (v *View) set(s Snapshot) {
	v.snap = s
	close(v.changed)
	v.changed = make(chan struct{})
}

// Snapshot returns current state of the view.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap
}

// Wait blocks until load identified by tok settles. It returns ErrSuperseded
// along with the current state when newer load was started meanwhile.
func (v *View) Wait(ctx context.Context, tok Token) (Snapshot, error) {
	for {
		v.mu.Lock()
		snap, changed := v.snap, v.changed
		v.mu.Unlock()

		switch {
		case snap.Token > tok:
			return snap, ErrSuperseded
		case snap.Token == tok && snap.Status != Pending:
			return snap, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

// Close abandons any load in flight, view stays empty afterwards.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.closed = true
	v.gen++
	v.set(Snapshot{Token: v.gen, Status: Empty})
}

// Load resolves single source to its final state using a fresh view.
func Load(ctx context.Context, f Fetcher, theme block.Theme, src Source, log *zap.Logger) (Snapshot, error) {
	v := NewView(f, theme, log)
	return v.Wait(ctx, v.Load(ctx, src))
}
