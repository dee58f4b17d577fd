package render

import (
	"strings"
	"testing"

	"newsview/block"
)

func TestBlock_NothingRendered(t *testing.T) {
	r := newTestRenderer(t)
	var nilParagraph *block.Paragraph

	for name, b := range map[string]block.Block{
		"nil":             nil,
		"typed nil":       nilParagraph,
		"unknown":         &block.Unknown{Type: "carousel"},
		"malformed":       &block.Malformed{Err: block.ErrMissingType},
		"empty gallery":   &block.Gallery{},
		"no author":       &block.Author{Style: block.AuthorCover},
		"unknown author":  &block.Author{Author: &block.Person{Name: "X"}, Style: "fancy"},
		"linked no image": &block.Gallery{Common: block.Common{Link: &block.Link{URL: "https://x"}}},
	} {
		t.Run(name, func(t *testing.T) {
			if el := r.Block(b, block.ThemeLight, "k"); el != nil {
				t.Errorf("Block() = %s, want nothing", serialize(t, el))
			}
		})
	}
}

func TestBlock_Paragraph(t *testing.T) {
	r := newTestRenderer(t)

	t.Run("plain text fallback", func(t *testing.T) {
		p := r.Block(&block.Paragraph{Text: "hello"}, block.ThemeDark, "k")
		if p.Tag != "p" || attr(p, "class") != "lp-paragraph" {
			t.Fatalf("paragraph = %s", serialize(t, p))
		}
		if attr(p, "style") != "color: #e5e7eb; white-space: pre-wrap;" {
			t.Errorf("style = %q", attr(p, "style"))
		}
		spans := p.SelectElements("span")
		if len(spans) != 1 || spans[0].Text() != "hello" || attr(spans[0], "data-key") != "rt-0" {
			t.Errorf("runs = %s", serialize(t, p))
		}
	})

	t.Run("styles variant and link", func(t *testing.T) {
		b := &block.Paragraph{
			Common: block.Common{
				Link: &block.Link{URL: "https://x"},
				Styles: &block.Styles{
					FontSize:      block.Number(18),
					Color:         block.Text("#ff0000"),
					IsCustomColor: true,
					FontWeight:    block.Number(600),
					LineHeight:    block.Number(1.7),
					TextAlign:     block.Text("center"),
					BorderLeft:    block.Text("4px solid #3b82f6"),
				},
			},
			Variant:  "lead",
			RichText: []block.TextRun{{Text: "a"}, {Text: "b", Marks: []block.Mark{block.MarkItalic}}},
		}
		a := r.Block(b, block.ThemeLight, "k")
		if a.Tag != "a" {
			t.Fatalf("linked paragraph = %s", serialize(t, a))
		}
		p := mustFind(t, a, "p")
		if attr(p, "class") != "lp-paragraph lead" {
			t.Errorf("class = %q", attr(p, "class"))
		}
		want := "font-size: 18px; color: #ff0000; font-weight: 600; line-height: 1.7; text-align: center; border-left: 4px solid #3b82f6; white-space: pre-wrap;"
		if attr(p, "style") != want {
			t.Errorf("style = %q\nwant %q", attr(p, "style"), want)
		}
		if len(p.SelectElements("span")) != 2 || p.FindElement("span/em") == nil {
			t.Errorf("rich text = %s", serialize(t, p))
		}
	})
}

func TestBlock_Subheading(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name       string
		styles     *block.Styles
		wantMargin string
	}{
		{name: "no divider"},
		{name: "left divider", styles: &block.Styles{Divider: true}, wantMargin: "margin: 8px 0 0;"},
		{name: "centered divider", styles: &block.Styles{Divider: true, TextAlign: block.Text("center")}, wantMargin: "margin: 8px auto 0;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			div := r.Block(&block.Subheading{Common: block.Common{Styles: tt.styles}, Text: "Title"}, block.ThemeLight, "k")
			h := mustFind(t, div, "h3")
			if h.Text() != "Title" || attr(h, "class") != "lp-subheading" {
				t.Errorf("heading = %s", serialize(t, h))
			}
			divider := div.FindElement("div[@class='lp-subheading-divider']")
			if tt.wantMargin == "" {
				if divider != nil {
					t.Error("unexpected divider")
				}
				return
			}
			if divider == nil {
				t.Fatal("divider missing")
			}
			st := attr(divider, "style")
			if !strings.Contains(st, "height: 2px;") || !strings.Contains(st, "width: 40px;") ||
				!strings.Contains(st, "background: #3b82f6;") || !strings.Contains(st, tt.wantMargin) {
				t.Errorf("divider style = %q", st)
			}
		})
	}
}

func TestBlock_Image(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name        string
		img         *block.Image
		wantJustify string
		wantShadow  string
		wantCursor  string
	}{
		{
			name:        "defaults",
			img:         &block.Image{Src: "a.png"},
			wantJustify: "center", wantShadow: "none", wantCursor: "default",
		},
		{
			name:        "left soft lightbox",
			img:         &block.Image{Src: "a.png", Align: "left", Shadow: "soft", Lightbox: true, Radius: block.Number(12)},
			wantJustify: "flex-start", wantShadow: "0 10px 25px rgba(0,0,0,.15)", wantCursor: "zoom-in",
		},
		{
			name:        "right strong",
			img:         &block.Image{Src: "a.png", Align: "right", Shadow: "strong"},
			wantJustify: "flex-end", wantShadow: "0 20px 40px rgba(0,0,0,.35)", wantCursor: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			div := r.Block(tt.img, block.ThemeLight, "k")
			if attr(div, "class") != "lp-image" {
				t.Fatalf("image = %s", serialize(t, div))
			}
			inner := mustFind(t, div, "div[@class='lp-image-inner']")
			if attr(inner, "style") != "justify-content: "+tt.wantJustify+";" {
				t.Errorf("inner style = %q", attr(inner, "style"))
			}
			img := mustFind(t, inner, "img")
			st := attr(img, "style")
			if !strings.Contains(st, "box-shadow: "+tt.wantShadow+";") || !strings.Contains(st, "cursor: "+tt.wantCursor+";") {
				t.Errorf("img style = %q", st)
			}
			if tt.img.Radius.IsNum && !strings.Contains(st, "border-radius: 12px;") {
				t.Errorf("radius missing in %q", st)
			}
		})
	}

	t.Run("caption credit size", func(t *testing.T) {
		div := r.Block(&block.Image{Src: "a.png", Alt: "A", Size: "large", Caption: "Cap", Credit: "Agency"}, block.ThemeLight, "k")
		img := mustFind(t, div, ".//img")
		if attr(img, "class") != "lp-image-large" || attr(img, "alt") != "A" {
			t.Errorf("img = %s", serialize(t, img))
		}
		if c := mustFind(t, div, "div[@class='lp-image-caption']"); c.Text() != "Cap" {
			t.Errorf("caption = %q", c.Text())
		}
		if c := mustFind(t, div, "div[@class='lp-image-credit']"); c.Text() != "Source: Agency" {
			t.Errorf("credit = %q", c.Text())
		}
	})
}

func TestBlock_Gallery(t *testing.T) {
	r := newTestRenderer(t)

	one := r.Block(&block.Gallery{Images: []block.GalleryImage{{Src: "a.png"}}}, block.ThemeLight, "k")
	if figs := one.SelectElements("figure"); len(figs) != 1 {
		t.Fatalf("got %d figures, want 1", len(figs))
	}
	if !strings.Contains(attr(one, "style"), "grid-template-columns: repeat(3, 1fr);") {
		t.Errorf("default columns missing: %q", attr(one, "style"))
	}

	g := r.Block(&block.Gallery{
		Columns: block.Number(2),
		Images: []block.GalleryImage{
			{ID: "i1", Src: "a.png", Caption: "A", Credit: "Agency"},
			{URL: "https://cdn/b.png", Src: "b.png", Link: &block.Link{URL: "https://b"}},
			{Src: "c.png", Link: &block.Link{URL: "https://c", Target: "_blank"}},
		},
	}, block.ThemeLight, "k")
	if !strings.Contains(attr(g, "style"), "repeat(2, 1fr)") {
		t.Errorf("columns = %q", attr(g, "style"))
	}
	figs := g.SelectElements("figure")
	if len(figs) != 3 {
		t.Fatalf("got %d figures, want 3", len(figs))
	}
	for i, want := range []string{"i1", "https://cdn/b.png", "img-2"} {
		if attr(figs[i], "data-key") != want {
			t.Errorf("figure %d key = %q, want %q", i, attr(figs[i], "data-key"), want)
		}
	}

	if figs[0].SelectElement("a") != nil {
		t.Error("unlinked image wrapped")
	}
	if c := figs[0].SelectElement("figcaption"); c == nil || c.Text() != "A" || attr(c, "class") != "lp-gallery-caption" {
		t.Errorf("figcaption = %s", serialize(t, figs[0]))
	}
	if !strings.Contains(attr(mustFind(t, figs[0], "img"), "style"), "cursor: default;") {
		t.Error("unlinked image must have default cursor")
	}

	a := mustFind(t, figs[1], "a")
	if attr(a, "target") != "_self" || attr(a, "rel") != "noopener noreferrer" {
		t.Errorf("image link = %s", serialize(t, a))
	}
	if !strings.Contains(attr(mustFind(t, a, "img"), "style"), "cursor: pointer;") {
		t.Error("linked image must have pointer cursor")
	}
	if attr(mustFind(t, figs[2], "a"), "target") != "_blank" {
		t.Error("explicit target lost")
	}
}

func TestBlock_Author(t *testing.T) {
	r := newTestRenderer(t)
	person := &block.Person{Name: "X", Role: "Y", About: "Z", Image: "img.png"}
	socials := block.Socials{"whatsapp": "https://wa", "instagram": "", "facebook": "https://fb", "twitter": "https://x"}

	t.Run("default", func(t *testing.T) {
		div := r.Block(&block.Author{Author: person, BackgroundImage: "bg.png"}, block.ThemeLight, "k")
		if attr(div, "class") != "lp-author default" {
			t.Fatalf("author = %s", serialize(t, div))
		}
		img := mustFind(t, div, "img")
		if attr(img, "src") != "img.png" {
			t.Errorf("image = %s", serialize(t, img))
		}
		if strings.Contains(attr(img, "style"), "background-image") {
			t.Error("background must not bleed into default layout")
		}
		if mustFind(t, div, "div/h4").Text() != "X" ||
			mustFind(t, div, "div/p[@class='role']").Text() != "Y" ||
			mustFind(t, div, "div/p[2]").Text() != "Z" {
			t.Errorf("author text = %s", serialize(t, div))
		}
	})

	t.Run("default with bg for all", func(t *testing.T) {
		div := r.Block(&block.Author{Author: person, BackgroundImage: "bg.png", ApplyBgToAll: true}, block.ThemeLight, "k")
		if !strings.Contains(attr(mustFind(t, div, "img"), "style"), `background-image: url("bg.png");`) {
			t.Errorf("background missing: %s", serialize(t, div))
		}
	})

	t.Run("cover", func(t *testing.T) {
		div := r.Block(&block.Author{Author: person, Style: block.AuthorCover, BackgroundImage: "bg.png"}, block.ThemeLight, "k")
		if attr(div, "class") != "lp-author cover" || attr(div, "style") != `background-image: url("bg.png");` {
			t.Fatalf("cover = %s", serialize(t, div))
		}
		overlay := mustFind(t, div, "div[@class='overlay']")
		if mustFind(t, overlay, "h4").Text() != "X" || mustFind(t, overlay, "img") == nil {
			t.Errorf("overlay = %s", serialize(t, overlay))
		}
	})

	t.Run("default-social", func(t *testing.T) {
		div := r.Block(&block.Author{Author: person, Style: block.AuthorDefaultSocial, Socials: socials, BackgroundImage: "bg.png"}, block.ThemeLight, "k")
		if attr(div, "style") != "" {
			t.Errorf("background must not bleed: %q", attr(div, "style"))
		}
		row := mustFind(t, div, "div/div[@class='author-socials bottom-right']")
		if mustFind(t, row, "span[@class='follow-text']").Text() != "Follow Me On" {
			t.Error("follow text missing")
		}
		var got []string
		for _, img := range row.FindElements("a/img") {
			got = append(got, attr(img, "class"))
		}
		if strings.Join(got, ",") != "social-icon whatsapp,social-icon facebook,social-icon twitter" {
			t.Errorf("icons = %v", got)
		}
		a := mustFind(t, row, "a")
		if attr(a, "href") != "https://wa" || attr(a, "target") != "_blank" || attr(a, "rel") != "noreferrer" {
			t.Errorf("social link = %s", serialize(t, a))
		}
		img := mustFind(t, a, "img")
		if attr(img, "src") != "/icons/wa.png" || attr(img, "alt") != "whatsapp social icon" {
			t.Errorf("social icon = %s", serialize(t, img))
		}

		noSocials := r.Block(&block.Author{Author: person, Style: block.AuthorDefaultSocial}, block.ThemeLight, "k")
		if noSocials.FindElement(".//div[@class='author-socials bottom-right']") != nil {
			t.Error("socials container without socials")
		}
	})

	t.Run("centered-social", func(t *testing.T) {
		div := r.Block(&block.Author{Author: person, Style: block.AuthorCenteredSocial, Socials: socials, BackgroundImage: "bg.png"}, block.ThemeLight, "k")
		if attr(div, "class") != "lp-author cover centered centered-social" {
			t.Fatalf("centered = %s", serialize(t, div))
		}
		layout := mustFind(t, div, "div[@class='centered-social-layout']")
		rows := layout.FindElements("div[@class='author-socials row']")
		if len(rows) != 2 {
			t.Fatalf("got %d social rows, want 2", len(rows))
		}
		if rows[0].FindElement("span") != nil {
			t.Error("centered layout must not show follow text")
		}
		if n := len(rows[0].SelectElements("a")); n != 1 {
			t.Errorf("upper row has %d links, want 1 (whatsapp only)", n)
		}
		if n := len(rows[1].SelectElements("a")); n != 2 {
			t.Errorf("lower row has %d links, want 2", n)
		}
		if mustFind(t, layout, "div[@class='author-overlay-box']/div[@class='author-center']/h4").Text() != "X" {
			t.Error("author center missing")
		}
	})
}

func TestBlock_Video(t *testing.T) {
	r := newTestRenderer(t)

	v := mustFind(t, r.Block(&block.Video{Src: "v.mp4", Caption: "Clip"}, block.ThemeLight, "k"), ".//video")
	for name, want := range map[string]bool{"controls": true, "playsinline": true, "autoplay": false, "muted": false, "loop": false} {
		if got := v.SelectAttr(name) != nil; got != want {
			t.Errorf("attribute %s present = %v, want %v", name, got, want)
		}
	}

	v = mustFind(t, r.Block(&block.Video{
		Src: "v.mp4", Controls: block.Bool(false), Autoplay: block.Bool(true), Muted: block.Bool(true), Loop: block.Bool(true), Align: "left",
	}, block.ThemeLight, "k"), ".//video")
	for name, want := range map[string]bool{"controls": false, "playsinline": true, "autoplay": true, "muted": true, "loop": true} {
		if got := v.SelectAttr(name) != nil; got != want {
			t.Errorf("attribute %s present = %v, want %v", name, got, want)
		}
	}
}

func TestBlock_YouTubeDefaults(t *testing.T) {
	r := newTestRenderer(t)

	div := r.Block(&block.Embed{Type: block.KindYouTube, Src: "https://www.youtube.com/watch?v=abc123"}, block.ThemeLight, "k")
	iframe := mustFind(t, div, ".//iframe")
	if attr(iframe, "src") != "https://www.youtube.com/embed/abc123" {
		t.Errorf("src = %q", attr(iframe, "src"))
	}
	if attr(iframe, "allow") != "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share" {
		t.Errorf("allow = %q", attr(iframe, "allow"))
	}
	if attr(iframe, "referrerpolicy") != "strict-origin-when-cross-origin" {
		t.Errorf("referrerpolicy = %q", attr(iframe, "referrerpolicy"))
	}
	if iframe.SelectAttr("allowfullscreen") == nil {
		t.Error("allowfullscreen must default to true")
	}
	if attr(iframe, "title") != DefaultYouTubeTitle {
		t.Errorf("title = %q", attr(iframe, "title"))
	}

	div = r.Block(&block.Embed{
		Type: block.KindEmbed, Src: "https://maps/x", Title: "Map", Allow: "fullscreen",
		ReferrerPolicy: "no-referrer", AllowFullScreen: block.Bool(false), Caption: "Where",
	}, block.ThemeLight, "k")
	iframe = mustFind(t, div, ".//iframe")
	if attr(iframe, "src") != "https://maps/x" || attr(iframe, "title") != "Map" ||
		attr(iframe, "allow") != "fullscreen" || attr(iframe, "referrerpolicy") != "no-referrer" {
		t.Errorf("iframe = %s", serialize(t, iframe))
	}
	if iframe.SelectAttr("allowfullscreen") != nil {
		t.Error("explicit allowFullScreen=false ignored")
	}
	if mustFind(t, div, "div[@class='lp-embed-caption']").Text() != "Where" {
		t.Error("caption missing")
	}
}

func TestYouTubeEmbedURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.youtube.com/watch?v=abc", "https://www.youtube.com/embed/abc"},
		{"https://m.youtube.com/watch?v=abc&t=42s", "https://www.youtube.com/embed/abc?start=42"},
		{"https://youtu.be/xyz", "https://www.youtube.com/embed/xyz"},
		{"https://youtube.com/shorts/s1", "https://www.youtube.com/embed/s1"},
		{"https://www.youtube.com/embed/abc", "https://www.youtube.com/embed/abc"},
		{"https://www.youtube.com/channel/abc", "https://www.youtube.com/channel/abc"},
		{"https://vimeo.com/1", "https://vimeo.com/1"},
		{"not a url", "not a url"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := YouTubeEmbedURL(tt.in); got != tt.want {
			t.Errorf("YouTubeEmbedURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBlock_QuoteListAd(t *testing.T) {
	r := newTestRenderer(t)

	q := r.Block(&block.Quote{Text: "Wise words"}, block.ThemeDark, "k")
	if q.Tag != "blockquote" || q.Text() != "“Wise words”" {
		t.Errorf("quote = %s", serialize(t, q))
	}
	if attr(q, "style") != "color: #e5e7eb; border-left-color: #3b82f6;" {
		t.Errorf("quote style = %q", attr(q, "style"))
	}

	l := r.Block(&block.List{Items: []string{"", "  ", "a", "b"}}, block.ThemeLight, "preview-4")
	items := l.SelectElements("li")
	if len(items) != 2 || items[0].Text() != "a" || items[1].Text() != "b" {
		t.Fatalf("list = %s", serialize(t, l))
	}
	if attr(items[0], "data-key") != "preview-4-item-0" || attr(items[1], "data-key") != "preview-4-item-1" {
		t.Errorf("item keys = %q, %q", attr(items[0], "data-key"), attr(items[1], "data-key"))
	}

	empty := r.Block(&block.List{Items: []string{" ", "\t"}}, block.ThemeLight, "k")
	if empty == nil || empty.Tag != "ul" || len(empty.ChildElements()) != 0 {
		t.Errorf("blank list must render empty container, got %s", serialize(t, empty))
	}

	ad := r.Block(&block.Ad{Variant: "banner"}, block.ThemeLight, "k")
	if attr(ad, "class") != "lp-ad" || ad.Text() != "Advertisement – banner" {
		t.Errorf("ad = %s", serialize(t, ad))
	}
}

func TestBlock_DecodedWithBrokenPresentation(t *testing.T) {
	r := newTestRenderer(t)
	doc, _, err := block.DecodeBytes([]byte(`{"blocks": [
    {"type": "paragraph", "text": "linked", "link": "https://x"},
    {"type": "paragraph", "text": "styled", "styles": "big"},
    {"type": "paragraph", "text": "sized", "styles": {"fontSize": true}},
    {"type": "image", "src": "a.png", "lightbox": {}}
  ]}`), block.ThemeLight)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}

	for i, want := range []string{"linked", "styled", "sized", "a.png"} {
		el := r.Block(doc.Blocks[i], doc.Theme, "k")
		if el == nil {
			t.Errorf("block %d rendered nothing", i)
			continue
		}
		if out := serialize(t, el); !strings.Contains(out, want) {
			t.Errorf("block %d = %s, want %q", i, out, want)
		}
		if el.Tag == "a" {
			t.Errorf("block %d wrapped into link of wrong shape", i)
		}
	}
}
