package block

import (
	"fmt"
	"strconv"
	"strings"

	"newsview/utils/debug"
)

type treeWriter struct {
	*debug.TreeWriter
}

// String returns readable tree of the decoded document for debug reports.
func (d *Document) String() string {
	if d == nil {
		return "<nil Document>"
	}
	tw := treeWriter{debug.NewTreeWriter()}
	tw.Line(0, "Document theme=%q blocks=%d", d.Theme, len(d.Blocks))
	for i, b := range d.Blocks {
		tw.block(1, i, b)
	}
	return tw.String()
}

func (tw treeWriter) block(depth, index int, b Block) {
	c := b.Base()
	tw.Node(depth, fmt.Sprintf("[%d] %s", index, kindLabel(b.Kind())), "id", string(c.ID))
	tw.common(depth+1, c)

	switch v := b.(type) {
	case *Paragraph:
		tw.Node(depth+1, "Paragraph", "variant", v.Variant)
		if v.RichText == nil {
			tw.TextBlock(depth+1, "Text", v.Text)
		}
		for i := range v.RichText {
			run := &v.RichText[i]
			marks := make([]string, 0, len(run.Marks))
			for _, m := range run.Marks {
				marks = append(marks, string(m))
			}
			tw.Node(depth+1, fmt.Sprintf("Run[%d]", i), "id", string(run.ID), "marks", strings.Join(marks, ","), "href", run.Href())
			tw.TextBlock(depth+2, "Text", run.Text)
		}
	case *Subheading:
		tw.TextBlock(depth+1, "Text", v.Text)
	case *Image:
		tw.Node(depth+1, "Image", "src", v.Src, "alt", v.Alt, "size", v.Size, "radius", v.Radius.String(),
			"shadow", v.Shadow, "align", v.Align, "background", v.Background, "lightbox", flag(v.Lightbox))
		tw.TextBlock(depth+1, "Caption", v.Caption)
		tw.TextBlock(depth+1, "Credit", v.Credit)
	case *Gallery:
		tw.Node(depth+1, "Gallery", "columns", v.Columns.String(), "images", strconv.Itoa(len(v.Images)))
		for i, img := range v.Images {
			var link string
			if img.Link != nil {
				link = img.Link.URL
			}
			tw.Node(depth+2, fmt.Sprintf("Image[%d]", i), "id", string(img.ID), "src", img.Src, "alt", img.Alt, "link", link)
			tw.TextBlock(depth+3, "Caption", img.Caption)
			tw.TextBlock(depth+3, "Credit", img.Credit)
		}
	case *Author:
		tw.Node(depth+1, "Author", "style", v.Layout(), "background", v.BackgroundImage, "applyBgToAll", flag(v.ApplyBgToAll))
		if v.Author == nil {
			tw.Line(depth+2, "<no author>")
		} else {
			tw.Node(depth+2, "Person", "image", v.Author.Image, "name", v.Author.Name, "role", v.Author.Role)
			tw.TextBlock(depth+3, "About", v.Author.About)
		}
		tw.Map(depth+2, "Socials", v.Socials)
	case *Video:
		tw.Node(depth+1, "Video", "src", v.Src, "poster", v.Poster, "align", v.Align,
			"controls", optFlag(v.Controls), "autoplay", optFlag(v.Autoplay), "muted", optFlag(v.Muted), "loop", optFlag(v.Loop))
		tw.TextBlock(depth+1, "Caption", v.Caption)
	case *Embed:
		tw.Node(depth+1, "Embed", "src", v.Src, "title", v.Title, "allow", v.Allow,
			"referrerPolicy", v.ReferrerPolicy, "allowFullScreen", optFlag(v.AllowFullScreen), "align", v.Align)
		tw.TextBlock(depth+1, "Caption", v.Caption)
	case *Quote:
		tw.TextBlock(depth+1, "Text", v.Text)
	case *List:
		for i, item := range v.Items {
			tw.TextBlock(depth+1, fmt.Sprintf("Item[%d]", i), item)
		}
	case *Ad:
		tw.Node(depth+1, "Ad", "variant", v.Variant)
	case *Unknown:
		tw.Line(depth+1, "<unknown type, %d bytes>", len(v.Raw))
	case *Malformed:
		tw.Line(depth+1, "<malformed: %v>", v.Err)
	}
}

func (tw treeWriter) common(depth int, c *Common) {
	if c.Link != nil && c.Link.URL != "" {
		tw.Node(depth, "Link", "url", c.Link.URL, "target", c.Link.Target)
	}
	if c.Styles == nil {
		return
	}
	s := c.Styles
	tw.Node(depth, "Styles",
		"fontSize", s.FontSize.String(), "color", s.Color.String(), "isCustomColor", flag(s.IsCustomColor),
		"fontWeight", s.FontWeight.String(), "lineHeight", s.LineHeight.String(), "textAlign", s.TextAlign.String(),
		"letterSpacing", s.LetterSpacing.String(), "background", s.Background.String(), "padding", s.Padding.String(),
		"margin", s.Margin.String(), "borderLeft", s.BorderLeft.String(), "textTransform", s.TextTransform.String(),
		"divider", flag(s.Divider))
}

func kindLabel(k Kind) string {
	if k == "" {
		return "<untyped>"
	}
	return string(k)
}

func flag(f Flag) string {
	if f {
		return "true"
	}
	return ""
}

func optFlag(f *Flag) string {
	if f == nil {
		return ""
	}
	return strconv.FormatBool(bool(*f))
}
