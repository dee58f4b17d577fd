package render

import (
	"github.com/beevik/etree"

	"newsview/block"
	"newsview/icons"
)

// SocialIcon is a resolved social link.
type SocialIcon struct {
	Platform string
	URL      string
	Asset    string
}

// Socials resolves social links of the author in platforms order. Platforms
// outside of the supported set and entries with empty URL are omitted.
func Socials(socials block.Socials, platforms []string, set *icons.Set) []SocialIcon {
	out := make([]SocialIcon, 0, len(platforms))
	for _, p := range platforms {
		if !icons.Known(p) {
			continue
		}
		url := socials[p]
		if url == "" {
			continue
		}
		asset, _ := set.Asset(p)
		out = append(out, SocialIcon{Platform: p, URL: url, Asset: asset})
	}
	return out
}

// socialRow builds author social links container. Position is a layout
// class of the container.
func (r *Renderer) socialRow(socials block.Socials, platforms []string, position string, followText bool) *etree.Element {
	div := newElement("div", classes("author-socials", position))
	if followText {
		span := div.CreateElement("span")
		span.CreateAttr("class", "follow-text")
		span.SetText("Follow Me On")
	}
	for _, s := range Socials(socials, platforms, r.icons) {
		a := div.CreateElement("a")
		a.CreateAttr("href", s.URL)
		a.CreateAttr("target", "_blank")
		a.CreateAttr("rel", "noreferrer")
		img := a.CreateElement("img")
		if s.Asset != "" {
			img.CreateAttr("src", s.Asset)
		}
		img.CreateAttr("class", classes("social-icon", s.Platform))
		img.CreateAttr("alt", s.Platform+" social icon")
	}
	return div
}
