// Package render turns block documents into HTML element trees.
//
// Every renderer returns *etree.Element, nil meaning the block produces no
// output. Rendering never fails: blocks which cannot be presented are
// skipped without affecting their siblings.
package render

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"newsview/block"
	"newsview/icons"
)

// Renderer holds injected collaborators. It has no mutable state and is safe
// for concurrent use.
type Renderer struct {
	icons *icons.Set
	log   *zap.Logger
}

func New(set *icons.Set, log *zap.Logger) *Renderer {
	return &Renderer{icons: set, log: log.Named("render")}
}

// Block renders single block. Key is the block container key, it prefixes
// keys of nested items.
func (r *Renderer) Block(b block.Block, theme block.Theme, key string) *etree.Element {
	if isNil(b) {
		return nil
	}

	switch v := b.(type) {
	case *block.Paragraph:
		return WrapLink(b, r.paragraph(v, theme))
	case *block.Subheading:
		return WrapLink(b, r.subheading(v, theme))
	case *block.Image:
		return WrapLink(b, r.image(v))
	case *block.Gallery:
		return r.gallery(v)
	case *block.Author:
		return r.author(v)
	case *block.Video:
		return r.video(v)
	case *block.Embed:
		return r.embed(v)
	case *block.Quote:
		return r.quote(v, theme)
	case *block.List:
		return r.list(v, theme, key)
	case *block.Ad:
		return r.ad(v)
	case *block.Unknown:
		r.log.Debug("Skipping block of unknown type", zap.String("key", key), zap.String("type", string(v.Type)))
	case *block.Malformed:
		r.log.Debug("Skipping malformed block", zap.String("key", key), zap.String("type", string(v.Type)), zap.Error(v.Err))
	default:
		r.log.Debug("Skipping unsupported block", zap.String("key", key), zap.String("type", string(b.Kind())))
	}
	return nil
}
