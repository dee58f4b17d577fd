package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"newsview/block"
	"newsview/loader"
	"newsview/render"
	"newsview/store"
)

// headerStatus carries loader state of the rendered view, failed loads look
// the same as empty ones otherwise.
const headerStatus = "X-Preview-Status"

// previewByID fetches document and renders it. Without slot the load is
// one-shot and leaves nothing behind.
func (s *Server) previewByID(c *gin.Context) {
	s.load(c, c.Query("slot"), loader.Source{ID: c.Param("id")})
}

// previewState renders document supplied in the request body without
// fetching anything.
func (s *Server) previewState(c *gin.Context) {
	doc, warnings, err := block.Decode(c.Request.Body, s.opts.Theme)
	if err != nil {
		respondError(c, http.StatusBadRequest, "bad_document", err)
		return
	}
	for _, w := range warnings {
		s.log.Debug("Preview state has problems", zap.Error(w))
	}
	s.load(c, c.Query("slot"), loader.Source{Preview: doc})
}

// load resolves source in the slot view, or in a private view when slot is
// empty.
func (s *Server) load(c *gin.Context, slot string, src loader.Source) {
	var (
		snap loader.Snapshot
		err  error
	)
	if slot == "" {
		snap, err = loader.Load(c.Request.Context(), s.opts.Fetcher, s.opts.Theme, src, s.log)
	} else {
		v := s.view(slot)
		snap, err = v.Wait(c.Request.Context(), v.Load(c.Request.Context(), src))
	}
	switch {
	case errors.Is(err, loader.ErrSuperseded):
		respondError(c, http.StatusConflict, "superseded", fmt.Errorf("slot %q: %w", slot, err))
		return
	case err != nil:
		respondError(c, http.StatusServiceUnavailable, "canceled", err)
		return
	}
	s.page(c, snap)
}

// currentView renders present state of the slot, loading placeholder
// included, without starting any load.
func (s *Server) currentView(c *gin.Context) {
	v, ok := s.existingView(c.Param("slot"))
	if !ok {
		respondError(c, http.StatusNotFound, "no_slot", fmt.Errorf("slot %q is not known", c.Param("slot")))
		return
	}
	s.page(c, v.Snapshot())
}

func (s *Server) deleteView(c *gin.Context) {
	if !s.dropView(c.Param("slot")) {
		respondError(c, http.StatusNotFound, "no_slot", fmt.Errorf("slot %q is not known", c.Param("slot")))
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) rawDocument(c *gin.Context) {
	if s.opts.Raw == nil {
		respondError(c, http.StatusNotImplemented, "no_local_store", errors.New("documents are not stored locally"))
		return
	}
	data, err := s.opts.Raw.Raw(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", err)
		return
	case err != nil:
		respondError(c, http.StatusInternalServerError, "store_failed", err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (s *Server) page(c *gin.Context, snap loader.Snapshot) {
	view := s.opts.Renderer.View(snap)
	if s.opts.Checker != nil {
		s.opts.Checker.Check(view)
	}

	var buf bytes.Buffer
	if err := render.WritePage(&buf, render.Page(view, s.opts.Page)); err != nil {
		respondError(c, http.StatusInternalServerError, "render_failed", err)
		return
	}
	if snap.Doc != nil && s.opts.Report != nil {
		s.storeReport("document.txt", []byte(snap.Doc.String()))
		if problems := block.Validate(snap.Doc); problems != nil {
			s.storeReport("validation.txt", []byte(block.Describe(problems)))
		}
	}
	s.storeReport("page.html", buf.Bytes())

	c.Header(headerStatus, snap.Status.String())
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
