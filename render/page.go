package render

import (
	_ "embed"
	"io"

	"github.com/beevik/etree"
	"golang.org/x/text/language"
)

//go:embed default.css
var DefaultStylesheet []byte

// PageOptions describes the HTML page wrapping preview.
type PageOptions struct {
	Title string
	Lang  language.Tag
	// Stylesheet is inlined into the page head.
	Stylesheet []byte
	// StylesheetHref links external stylesheet in addition to inlined one.
	StylesheetHref string
}

// Page wraps view into a complete XHTML document.
func Page(view *etree.Element, opts PageOptions) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateDirective("DOCTYPE html")

	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")
	if opts.Lang != language.Und {
		html.CreateAttr("lang", opts.Lang.String())
	}

	head := html.CreateElement("head")

	meta := head.CreateElement("meta")
	meta.CreateAttr("charset", "utf-8")

	viewport := head.CreateElement("meta")
	viewport.CreateAttr("name", "viewport")
	viewport.CreateAttr("content", "width=device-width, initial-scale=1")

	head.CreateElement("title").SetText(opts.Title)

	if len(opts.Stylesheet) > 0 {
		// CDATA hidden in CSS comments keeps selectors intact for both
		// HTML and XML parsers
		style := head.CreateElement("style")
		style.CreateText("/*")
		style.CreateCData("*/\n" + string(opts.Stylesheet) + "\n/*")
		style.CreateText("*/")
	}
	if opts.StylesheetHref != "" {
		link := head.CreateElement("link")
		link.CreateAttr("rel", "stylesheet")
		link.CreateAttr("href", opts.StylesheetHref)
	}

	body := html.CreateElement("body")
	if view != nil {
		body.AddChild(view)
	}
	return doc
}

// WritePage serializes page. Elements are never self-closed so output is
// valid both as HTML and XHTML, and no indentation is added since it would
// become visible in pre-wrap paragraphs.
func WritePage(w io.Writer, doc *etree.Document) error {
	doc.WriteSettings.CanonicalEndTags = true
	_, err := doc.WriteTo(w)
	return err
}
