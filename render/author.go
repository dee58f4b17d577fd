package render

import (
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"newsview/block"
	"newsview/icons"
)

var (
	upperPlatforms = []string{"whatsapp", "instagram"}
	lowerPlatforms = []string{"facebook", "twitter"}
)

// author renders one of the supported layouts. Background image is applied
// only to cover layouts or when explicitly requested for all of them.
func (r *Renderer) author(b *block.Author) *etree.Element {
	if b.Author == nil {
		return nil
	}

	var bg string
	if b.BackgroundImage != "" && (b.Style == block.AuthorCover || b.ApplyBgToAll) {
		bg = cssURL(b.BackgroundImage)
	}

	switch b.Layout() {
	case block.AuthorDefault:
		div := newElement("div", "lp-author default")
		img := authorImage(div, b.Author)
		new(style).
			set("background-image", bg).
			set("background-size", "cover").
			set("background-position", "center").
			apply(img)
		authorText(div.CreateElement("div"), b.Author)
		return div

	case block.AuthorCenteredSocial:
		div := newElement("div", "lp-author cover centered centered-social")
		if b.BackgroundImage != "" {
			new(style).set("background-image", cssURL(b.BackgroundImage)).apply(div)
		}
		layout := div.CreateElement("div")
		layout.CreateAttr("class", "centered-social-layout")
		layout.AddChild(r.socialRow(b.Socials, upperPlatforms, "row", false))
		box := layout.CreateElement("div")
		box.CreateAttr("class", "author-overlay-box")
		center := box.CreateElement("div")
		center.CreateAttr("class", "author-center")
		authorImage(center, b.Author)
		authorText(center, b.Author)
		layout.AddChild(r.socialRow(b.Socials, lowerPlatforms, "row", false))
		return div

	case block.AuthorDefaultSocial:
		div := newElement("div", "lp-author default")
		new(style).set("background-image", bg).apply(div)
		authorImage(div, b.Author)
		text := div.CreateElement("div")
		authorText(text, b.Author)
		if b.Socials != nil {
			text.AddChild(r.socialRow(b.Socials, icons.Platforms, "bottom-right", true))
		}
		return div

	case block.AuthorCover:
		div := newElement("div", "lp-author cover")
		new(style).set("background-image", bg).apply(div)
		overlay := div.CreateElement("div")
		overlay.CreateAttr("class", "overlay")
		authorImage(overlay, b.Author)
		authorText(overlay, b.Author)
		return div
	}

	r.log.Debug("Skipping author block with unknown style", zap.String("style", b.Style))
	return nil
}

func authorImage(parent *etree.Element, p *block.Person) *etree.Element {
	img := parent.CreateElement("img")
	img.CreateAttr("src", p.Image)
	img.CreateAttr("alt", p.Name)
	return img
}

func authorText(parent *etree.Element, p *block.Person) {
	parent.CreateElement("h4").SetText(p.Name)
	role := parent.CreateElement("p")
	role.CreateAttr("class", "role")
	role.SetText(p.Role)
	parent.CreateElement("p").SetText(p.About)
}

func cssURL(ref string) string {
	return `url("` + strings.ReplaceAll(ref, `"`, `\"`) + `")`
}
