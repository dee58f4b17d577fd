// Package block defines the structured article document: an ordered list of
// typed blocks together with presentation theme.
package block

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind is the block type tag as stored in the document.
type Kind string

const (
	KindParagraph  Kind = "paragraph"
	KindSubheading Kind = "subheading"
	KindImage      Kind = "image"
	KindGallery    Kind = "gallery"
	KindAuthor     Kind = "author"
	KindVideo      Kind = "video"
	KindYouTube    Kind = "youtube"
	KindEmbed      Kind = "embed"
	KindQuote      Kind = "quote"
	KindList       Kind = "list"
	KindAd         Kind = "ad"
)

// Theme governs default text color of the document.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// IsDark reports whether theme selects dark defaults. Every other value,
// including unknown ones, selects light defaults.
func (t Theme) IsDark() bool {
	return t == ThemeDark
}

// Known reports whether theme is one of the recognized values.
func (t Theme) Known() bool {
	return t == ThemeLight || t == ThemeDark
}

// Block is a single structural unit of the document. Concrete types are
// pointers to Paragraph, Subheading, Image, Gallery, Author, Video, Embed,
// Quote, List, Ad, Unknown and Malformed.
type Block interface {
	Kind() Kind
	Base() *Common
}

// Document is an ordered block list. Order is display order.
type Document struct {
	Blocks []Block
	Theme  Theme
}

// Common holds fields every block may carry.
type Common struct {
	ID     ID      `json:"id"`
	Link   *Link   `json:"link"`
	Styles *Styles `json:"styles"`
}

func (c *Common) Base() *Common { return c }

// Link is optional hyperlink data attached to a block or gallery image.
type Link struct {
	URL    string `json:"url"`
	Target string `json:"target"`
}

// Styles are presentation overrides. Only some properties are meaningful for
// each block kind.
type Styles struct {
	FontSize      Value `json:"fontSize"`
	Color         Value `json:"color"`
	FontWeight    Value `json:"fontWeight"`
	LineHeight    Value `json:"lineHeight"`
	TextAlign     Value `json:"textAlign"`
	LetterSpacing Value `json:"letterSpacing"`
	Background    Value `json:"background"`
	Padding       Value `json:"padding"`
	Margin        Value `json:"margin"`
	BorderLeft    Value `json:"borderLeft"`
	TextTransform Value `json:"textTransform"`
	IsCustomColor Flag  `json:"isCustomColor"`
	Divider       Flag  `json:"divider"`
}

// Mark is a rich text formatting attribute.
type Mark string

const (
	MarkBold      Mark = "bold"
	MarkItalic    Mark = "italic"
	MarkUnderline Mark = "underline"
	MarkStrike    Mark = "strike"
	MarkHighlight Mark = "highlight"
	MarkLink      Mark = "link"
)

// MarkOrder is nesting order of marks, innermost first.
var MarkOrder = []Mark{MarkBold, MarkItalic, MarkUnderline, MarkStrike, MarkHighlight, MarkLink}

// TextRun is a piece of rich text with its marks.
type TextRun struct {
	ID    ID        `json:"id"`
	Text  string    `json:"text"`
	Marks []Mark    `json:"marks"`
	Attrs *RunAttrs `json:"attrs"`
}

type RunAttrs struct {
	Href string `json:"href"`
}

// Has reports presence of mark m regardless of its position.
func (r *TextRun) Has(m Mark) bool {
	return slices.Contains(r.Marks, m)
}

// Href returns link destination, possibly empty.
func (r *TextRun) Href() string {
	if r.Attrs == nil {
		return ""
	}
	return r.Attrs.Href
}

type Paragraph struct {
	Common
	Text     string    `json:"text"`
	RichText []TextRun `json:"richText"`
	Variant  string    `json:"variant"`
}

func (*Paragraph) Kind() Kind { return KindParagraph }

// Runs returns rich text, or a single run made of plain text when there is
// none.
func (p *Paragraph) Runs() []TextRun {
	if p.RichText != nil {
		return p.RichText
	}
	return []TextRun{{Text: p.Text}}
}

type Subheading struct {
	Common
	Text string `json:"text"`
}

func (*Subheading) Kind() Kind { return KindSubheading }

type Image struct {
	Common
	Src        string `json:"src"`
	Alt        string `json:"alt"`
	Size       string `json:"size"`
	Radius     Value  `json:"radius"`
	Shadow     string `json:"shadow"`
	Align      string `json:"align"`
	Background string `json:"background"`
	Caption    string `json:"caption"`
	Credit     string `json:"credit"`
	Lightbox   Flag   `json:"lightbox"`
}

func (*Image) Kind() Kind { return KindImage }

type GalleryImage struct {
	ID      ID     `json:"id"`
	URL     string `json:"url"`
	Src     string `json:"src"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
	Credit  string `json:"credit"`
	Link    *Link  `json:"link"`
}

type Gallery struct {
	Common
	Images  []GalleryImage `json:"images"`
	Columns Value          `json:"columns"`
}

func (*Gallery) Kind() Kind { return KindGallery }

// Author layouts.
const (
	AuthorDefault        = "default"
	AuthorCover          = "cover"
	AuthorDefaultSocial  = "default-social"
	AuthorCenteredSocial = "centered-social"
)

type Person struct {
	Image string `json:"image"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	About string `json:"about"`
}

// Socials maps platform key to profile URL. Absent and null entries are
// equivalent.
type Socials map[string]string

type Author struct {
	Common
	Author          *Person `json:"author"`
	Style           string  `json:"style"`
	BackgroundImage string  `json:"backgroundImage"`
	ApplyBgToAll    Flag    `json:"applyBgToAll"`
	Socials         Socials `json:"socials"`
}

func (*Author) Kind() Kind { return KindAuthor }

// Layout returns author style with default applied.
func (a *Author) Layout() string {
	if a.Style == "" {
		return AuthorDefault
	}
	return a.Style
}

type Video struct {
	Common
	Src      string `json:"src"`
	Poster   string `json:"poster"`
	Controls *Flag  `json:"controls"`
	Autoplay *Flag  `json:"autoplay"`
	Muted    *Flag  `json:"muted"`
	Loop     *Flag  `json:"loop"`
	Align    string `json:"align"`
	Caption  string `json:"caption"`
}

func (*Video) Kind() Kind { return KindVideo }

// Embed is an iframe based block, "youtube" and "embed" types share it.
type Embed struct {
	Common
	Type            Kind   `json:"-"`
	Src             string `json:"src"`
	Title           string `json:"title"`
	Allow           string `json:"allow"`
	ReferrerPolicy  string `json:"referrerPolicy"`
	AllowFullScreen *Flag  `json:"allowFullScreen"`
	Align           string `json:"align"`
	Caption         string `json:"caption"`
}

func (e *Embed) Kind() Kind { return e.Type }

type Quote struct {
	Common
	Text string `json:"text"`
}

func (*Quote) Kind() Kind { return KindQuote }

type List struct {
	Common
	Items []string `json:"items"`
}

func (*List) Kind() Kind { return KindList }

// Visible returns items which are not blank, in original order.
func (l *List) Visible() []string {
	out := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}

type Ad struct {
	Common
	Variant string `json:"variant"`
}

func (*Ad) Kind() Kind { return KindAd }

// Unknown is a well formed block of a type this program does not know. It
// renders to nothing.
type Unknown struct {
	Common
	Type Kind
	Raw  json.RawMessage
}

func (u *Unknown) Kind() Kind { return u.Type }

// Malformed stands in place of a block which could not be decoded. It
// renders to nothing.
type Malformed struct {
	Common
	Type Kind
	Err  error
}

func (m *Malformed) Kind() Kind { return m.Type }

// ID is a stable block or run key. Stored documents use both strings and
// numbers for it.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("%w: id must be string or number", ErrInvalidValue)
		}
		*id = ID(n.String())
	}
	return nil
}

// Value is a style value which could be stored either as CSS text or as a
// bare number.
type Value struct {
	Text  string
	Num   float64
	IsNum bool
}

// Text returns textual style value.
func Text(s string) Value { return Value{Text: s} }

// Number returns numeric style value.
func Number(n float64) Value { return Value{Num: n, IsNum: true} }

func (v Value) IsZero() bool {
	return !v.IsNum && v.Text == ""
}

func (v Value) String() string {
	if v.IsNum {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Text
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*v = Value{}
	switch {
	case bytes.Equal(data, []byte("null")):
	case len(data) > 0 && data[0] == '"':
		return json.Unmarshal(data, &v.Text)
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("%w: style value must be string or number", ErrInvalidValue)
		}
		v.Num, v.IsNum = n, true
	}
	return nil
}

// Flag is a boolean which accepts loosely typed stored values: numbers and
// strings are true unless zero or empty.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*f = false
	case bytes.Equal(data, []byte("true")):
		*f = true
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = s != ""
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return fmt.Errorf("%w: flag must be a scalar", ErrInvalidValue)
		}
		*f = n != 0
	}
	return nil
}

// Or returns flag value or def when flag is absent.
func (f *Flag) Or(def bool) bool {
	if f == nil {
		return def
	}
	return bool(*f)
}

// Bool returns flag pointer, convenient for building documents in code.
func Bool(b bool) *Flag {
	f := Flag(b)
	return &f
}
