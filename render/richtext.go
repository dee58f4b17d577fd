package render

import (
	"github.com/beevik/etree"

	"newsview/block"
)

// RichText turns runs into span per run. Marks always nest in
// block.MarkOrder, bold innermost, independently of how they are stored.
func RichText(runs []block.TextRun) []*etree.Element {
	out := make([]*etree.Element, 0, len(runs))
	for i := range runs {
		run := &runs[i]

		var inner *etree.Element
		for _, m := range block.MarkOrder {
			if !run.Has(m) {
				continue
			}
			e := markElement(m, run)
			if inner == nil {
				e.SetText(run.Text)
			} else {
				e.AddChild(inner)
			}
			inner = e
		}

		span := etree.NewElement("span")
		span.CreateAttr("data-key", Key(run.ID, "rt", i))
		if inner == nil {
			span.SetText(run.Text)
		} else {
			span.AddChild(inner)
		}
		out = append(out, span)
	}
	return out
}

func markElement(m block.Mark, run *block.TextRun) *etree.Element {
	switch m {
	case block.MarkBold:
		return etree.NewElement("strong")
	case block.MarkItalic:
		return etree.NewElement("em")
	case block.MarkUnderline:
		return etree.NewElement("u")
	case block.MarkStrike:
		return etree.NewElement("s")
	case block.MarkHighlight:
		e := etree.NewElement("span")
		new(style).set("background", highlightColor).apply(e)
		return e
	default: // block.MarkLink
		a := etree.NewElement("a")
		if href := run.Href(); href != "" {
			a.CreateAttr("href", href)
		}
		a.CreateAttr("target", "_blank")
		a.CreateAttr("rel", "noreferrer")
		return a
	}
}
