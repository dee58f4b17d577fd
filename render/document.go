package render

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"newsview/block"
	"newsview/loader"
)

const (
	LoadingText = "Loading…"
	EmptyText   = "No preview content available."
)

// Blocks renders every block into its own keyed container in stored order.
// Containers of blocks producing nothing stay in place, empty.
func (r *Renderer) Blocks(blocks []block.Block, theme block.Theme) []*etree.Element {
	out := make([]*etree.Element, 0, len(blocks))
	for i, b := range blocks {
		key := BlockKey(b, i)

		container := newElement("div", "preview-block")
		container.CreateAttr("data-key", key)
		content := container.CreateElement("div")
		content.CreateAttr("class", "preview-content")
		if el := r.Block(b, theme, key); el != nil {
			content.AddChild(el)
		}
		out = append(out, container)
	}
	return out
}

// View renders the whole preview for a loader state. Only pending and empty
// states have placeholders, failed loads look the same as empty ones.
func (r *Renderer) View(snap loader.Snapshot) *etree.Element {
	root := newElement("div", "left-preview")

	blocks := snap.Blocks()
	switch {
	case snap.Status == loader.Pending:
		root.SetText(LoadingText)
	case len(blocks) == 0:
		if snap.Status == loader.Failed {
			r.log.Debug("Showing empty placeholder for failed load", zap.String("id", snap.ID), zap.Error(snap.Err))
		}
		root.SetText(EmptyText)
	default:
		for _, el := range r.Blocks(blocks, snap.Doc.Theme) {
			root.AddChild(el)
		}
	}
	return root
}
