package render

import (
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"newsview/block"
)

func (r *Renderer) paragraph(b *block.Paragraph, theme block.Theme) *etree.Element {
	s := styles(b)
	p := newElement("p", classes("lp-paragraph", b.Variant))
	new(style).
		value("font-size", s.FontSize).
		set("color", ColorFor(b, theme)).
		value("font-weight", s.FontWeight).
		value("line-height", s.LineHeight).
		value("text-align", s.TextAlign).
		value("letter-spacing", s.LetterSpacing).
		value("background", s.Background).
		value("padding", s.Padding).
		value("margin", s.Margin).
		value("border-left", s.BorderLeft).
		set("white-space", "pre-wrap").
		apply(p)
	for _, span := range RichText(b.Runs()) {
		p.AddChild(span)
	}
	return p
}

func (r *Renderer) subheading(b *block.Subheading, theme block.Theme) *etree.Element {
	s := styles(b)
	div := etree.NewElement("div")
	new(style).value("margin", s.Margin).apply(div)

	h := div.CreateElement("h3")
	h.CreateAttr("class", "lp-subheading")
	new(style).
		value("font-size", s.FontSize).
		value("font-weight", s.FontWeight).
		set("color", ColorFor(b, theme)).
		value("text-align", s.TextAlign).
		value("text-transform", s.TextTransform).
		apply(h)
	h.SetText(b.Text)

	if s.Divider {
		margin := "8px 0 0"
		if s.TextAlign.String() == "center" {
			margin = "8px auto 0"
		}
		divider := div.CreateElement("div")
		divider.CreateAttr("class", "lp-subheading-divider")
		new(style).
			set("height", "2px").
			set("width", "40px").
			set("background", accentColor).
			set("margin", margin).
			apply(divider)
	}
	return div
}

func (r *Renderer) quote(b *block.Quote, theme block.Theme) *etree.Element {
	q := newElement("blockquote", "lp-quote")
	new(style).set("color", ColorFor(b, theme)).set("border-left-color", accentColor).apply(q)
	q.SetText("“" + b.Text + "”")
	return q
}

// list drops blank items, an empty list still renders its container.
func (r *Renderer) list(b *block.List, theme block.Theme, key string) *etree.Element {
	ul := newElement("ul", "lp-list")
	new(style).set("color", ColorFor(b, theme)).apply(ul)

	items := b.Visible()
	if dropped := len(b.Items) - len(items); dropped > 0 {
		r.log.Debug("Blank list items dropped", zap.String("key", key), zap.Int("count", dropped))
	}
	for i, item := range items {
		li := ul.CreateElement("li")
		li.CreateAttr("data-key", fmt.Sprintf("%s-item-%d", key, i))
		li.SetText(item)
	}
	return ul
}

func (r *Renderer) ad(b *block.Ad) *etree.Element {
	div := newElement("div", "lp-ad")
	div.SetText("Advertisement – " + b.Variant)
	return div
}
