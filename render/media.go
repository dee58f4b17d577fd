package render

import (
	"net/url"
	"strings"

	"github.com/beevik/etree"

	"newsview/block"
)

// Embed defaults, third party players depend on exact values.
const (
	DefaultEmbedAllow          = "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share"
	DefaultEmbedReferrerPolicy = "strict-origin-when-cross-origin"
	DefaultYouTubeTitle        = "YouTube video player"
	DefaultEmbedTitle          = "Embedded content"

	defaultGalleryColumns = "3"
)

var shadows = map[string]string{
	"soft":   "0 10px 25px rgba(0,0,0,.15)",
	"strong": "0 20px 40px rgba(0,0,0,.35)",
}

func (r *Renderer) image(b *block.Image) *etree.Element {
	div := newElement("div", "lp-image")
	inner := div.CreateElement("div")
	inner.CreateAttr("class", "lp-image-inner")
	new(style).set("justify-content", justify(b.Align)).apply(inner)

	img := inner.CreateElement("img")
	img.CreateAttr("src", b.Src)
	img.CreateAttr("alt", b.Alt)
	if b.Size != "" {
		img.CreateAttr("class", "lp-image-"+b.Size)
	}
	shadow, ok := shadows[b.Shadow]
	if !ok {
		shadow = "none"
	}
	cursor := "default"
	if b.Lightbox {
		cursor = "zoom-in"
	}
	new(style).
		value("border-radius", b.Radius).
		set("box-shadow", shadow).
		set("background", b.Background).
		set("cursor", cursor).
		apply(img)

	appendCaption(div, "lp-image-caption", b.Caption)
	appendCredit(div, b.Credit)
	return div
}

// gallery renders nothing at all when there are no images.
func (r *Renderer) gallery(b *block.Gallery) *etree.Element {
	if len(b.Images) == 0 {
		return nil
	}

	columns := b.Columns.String()
	if columns == "" || columns == "0" {
		columns = defaultGalleryColumns
	}
	div := newElement("div", "lp-gallery")
	new(style).
		set("display", "grid").
		set("grid-template-columns", "repeat("+columns+", 1fr)").
		set("gap", "12px").
		apply(div)

	for i := range b.Images {
		gi := &b.Images[i]
		linked := gi.Link != nil && gi.Link.URL != ""

		fig := div.CreateElement("figure")
		fig.CreateAttr("data-key", galleryKey(gi, i))
		new(style).set("text-align", "center").apply(fig)

		img := etree.NewElement("img")
		img.CreateAttr("src", gi.Src)
		img.CreateAttr("alt", gi.Alt)
		cursor := "default"
		if linked {
			cursor = "pointer"
		}
		new(style).set("width", "100%").set("border-radius", "8px").set("cursor", cursor).apply(img)

		if linked {
			a := anchor(gi.Link)
			a.AddChild(img)
			fig.AddChild(a)
		} else {
			fig.AddChild(img)
		}
		appendCaption(fig, "lp-gallery-caption", gi.Caption)
		appendCredit(fig, gi.Credit)
	}
	return div
}

func galleryKey(gi *block.GalleryImage, index int) string {
	if gi.ID == "" && gi.URL != "" {
		return gi.URL
	}
	return Key(gi.ID, "img", index)
}

func (r *Renderer) video(b *block.Video) *etree.Element {
	div := newElement("div", "lp-video")
	inner := div.CreateElement("div")
	inner.CreateAttr("class", "lp-video-inner")
	new(style).set("justify-content", justify(b.Align)).apply(inner)

	v := inner.CreateElement("video")
	v.CreateAttr("src", b.Src)
	if b.Poster != "" {
		v.CreateAttr("poster", b.Poster)
	}
	for _, attr := range []struct {
		name string
		on   bool
	}{
		{"controls", b.Controls.Or(true)},
		{"autoplay", b.Autoplay.Or(false)},
		{"muted", b.Muted.Or(false)},
		{"loop", b.Loop.Or(false)},
		{"playsinline", true},
	} {
		if attr.on {
			v.CreateAttr(attr.name, attr.name)
		}
	}
	new(style).set("max-width", "100%").apply(v)

	appendCaption(div, "lp-video-caption", b.Caption)
	return div
}

func (r *Renderer) embed(b *block.Embed) *etree.Element {
	youtube := b.Type == block.KindYouTube
	class, title := "lp-embed", DefaultEmbedTitle
	src := b.Src
	if youtube {
		class, title = "lp-embed lp-youtube", DefaultYouTubeTitle
		src = YouTubeEmbedURL(b.Src)
	}
	if b.Title != "" {
		title = b.Title
	}
	allow := b.Allow
	if allow == "" {
		allow = DefaultEmbedAllow
	}
	referrer := b.ReferrerPolicy
	if referrer == "" {
		referrer = DefaultEmbedReferrerPolicy
	}

	div := newElement("div", class)
	inner := div.CreateElement("div")
	inner.CreateAttr("class", "lp-embed-inner")
	new(style).set("justify-content", justify(b.Align)).apply(inner)

	iframe := inner.CreateElement("iframe")
	iframe.CreateAttr("src", src)
	iframe.CreateAttr("title", title)
	iframe.CreateAttr("allow", allow)
	iframe.CreateAttr("referrerpolicy", referrer)
	if b.AllowFullScreen.Or(true) {
		iframe.CreateAttr("allowfullscreen", "allowfullscreen")
	}
	iframe.CreateAttr("frameborder", "0")

	appendCaption(div, "lp-embed-caption", b.Caption)
	return div
}

// YouTubeEmbedURL converts watch, short link and shorts URLs to embeddable
// player URL. Anything else is returned unchanged.
func YouTubeEmbedURL(src string) string {
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil || u.Host == "" {
		return src
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		case strings.HasPrefix(u.Path, "/embed/"):
			return src
		}
	}
	if id == "" || strings.Contains(id, "/") {
		return src
	}

	out := "https://www.youtube.com/embed/" + url.PathEscape(id)
	if t := u.Query().Get("t"); t != "" {
		out += "?start=" + url.QueryEscape(strings.TrimSuffix(t, "s"))
	}
	return out
}

func appendCaption(parent *etree.Element, class, text string) {
	if text == "" {
		return
	}
	var tag string
	if parent.Tag == "figure" {
		tag = "figcaption"
	} else {
		tag = "div"
	}
	c := parent.CreateElement(tag)
	c.CreateAttr("class", class)
	c.SetText(text)
}

func appendCredit(parent *etree.Element, credit string) {
	if credit == "" {
		return
	}
	c := parent.CreateElement("div")
	c.CreateAttr("class", "lp-image-credit")
	c.SetText("Source: " + credit)
}
