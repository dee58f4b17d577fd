package render

import (
	"github.com/beevik/etree"

	"newsview/block"
)

const (
	defaultLinkTarget = "_self"
	safeRel           = "noopener noreferrer"
)

// WrapLink wraps content into a hyperlink when block has link url. Content
// itself is never altered.
func WrapLink(b block.Block, content *etree.Element) *etree.Element {
	if content == nil {
		return nil
	}
	l := b.Base().Link
	if l == nil || l.URL == "" {
		return content
	}
	a := anchor(l)
	new(style).set("text-decoration", "none").set("color", "inherit").apply(a)
	a.AddChild(content)
	return a
}

func anchor(l *block.Link) *etree.Element {
	a := etree.NewElement("a")
	a.CreateAttr("href", l.URL)
	target := l.Target
	if target == "" {
		target = defaultLinkTarget
	}
	a.CreateAttr("target", target)
	a.CreateAttr("rel", safeRel)
	return a
}
