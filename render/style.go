package render

import (
	"strings"

	"github.com/beevik/etree"

	"newsview/block"
)

// unitless properties keep bare numbers, every other numeric value is a
// pixel length.
var unitless = map[string]bool{
	"font-weight": true,
	"line-height": true,
	"opacity":     true,
	"z-index":     true,
	"flex-grow":   true,
}

// style accumulates inline CSS declarations in insertion order. Empty values
// are skipped, the same as undefined properties of an inline style object.
type style struct {
	decls []string
}

func (s *style) set(prop, value string) *style {
	if value != "" {
		s.decls = append(s.decls, prop+": "+value+";")
	}
	return s
}

func (s *style) value(prop string, v block.Value) *style {
	if v.IsZero() {
		return s
	}
	if v.IsNum && !unitless[prop] {
		if v.Num == 0 {
			return s.set(prop, "0")
		}
		return s.set(prop, v.String()+"px")
	}
	return s.set(prop, v.String())
}

func (s *style) String() string {
	return strings.Join(s.decls, " ")
}

// apply sets style attribute on element if there is anything to set.
func (s *style) apply(e *etree.Element) {
	if len(s.decls) > 0 {
		e.CreateAttr("style", s.String())
	}
}

func styles(b block.Block) *block.Styles {
	if s := b.Base().Styles; s != nil {
		return s
	}
	return &block.Styles{}
}

// classes joins non-empty class names.
func classes(names ...string) string {
	out := names[:0:0]
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return strings.Join(out, " ")
}

func newElement(tag, class string) *etree.Element {
	e := etree.NewElement(tag)
	if class != "" {
		e.CreateAttr("class", class)
	}
	return e
}

// justify maps block alignment to flex justification.
func justify(align string) string {
	switch align {
	case "left":
		return "flex-start"
	case "right":
		return "flex-end"
	default:
		return "center"
	}
}
