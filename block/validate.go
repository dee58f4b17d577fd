package block

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/multierr"
)

// ValidateOptions controls optional strictness of Validate.
type ValidateOptions struct {
	// AllowUnknownTypes accepts blocks of types this program does not render.
	AllowUnknownTypes bool
	// RequireIDs reports blocks without explicit id.
	RequireIDs bool
}

// Validate reports problems in the document which would make parts of it
// silently disappear from rendering. Result combines all found problems with
// multierr, nil means document is clean.
func Validate(doc *Document) error {
	return ValidateWithOptions(doc, ValidateOptions{})
}

func ValidateWithOptions(doc *Document, opts ValidateOptions) error {
	if doc == nil {
		return nil
	}
	var errs error
	add := func(path, format string, args ...any) {
		errs = multierr.Append(errs, &ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if !doc.Theme.Known() {
		add("theme", "unknown theme %q, light colors will be used", doc.Theme)
	}

	for i, b := range doc.Blocks {
		path := fmt.Sprintf("blocks[%d]", i)
		if opts.RequireIDs && b.Base().ID == "" {
			add(path, "block has no id")
		}
		switch v := b.(type) {
		case *Malformed:
			add(path, "malformed block: %v", v.Err)
		case *Unknown:
			if !opts.AllowUnknownTypes {
				add(path, "%v %q", ErrUnknownType, v.Type)
			}
		case *Paragraph:
			for j := range v.RichText {
				run := &v.RichText[j]
				for _, m := range run.Marks {
					if !knownMark(m) {
						add(fmt.Sprintf("%s.richText[%d]", path, j), "unknown mark %q", m)
					}
				}
				if run.Has(MarkLink) && run.Href() == "" {
					add(fmt.Sprintf("%s.richText[%d]", path, j), "link mark without href")
				}
			}
		case *Image:
			if v.Src == "" {
				add(path, "image without src")
			}
		case *Gallery:
			if len(v.Images) == 0 {
				add(path, "gallery without images")
			}
			for j, img := range v.Images {
				if img.Src == "" {
					add(fmt.Sprintf("%s.images[%d]", path, j), "gallery image without src")
				}
			}
		case *Author:
			if v.Author == nil {
				add(path, "author block without author")
			}
			switch v.Layout() {
			case AuthorDefault, AuthorCover, AuthorDefaultSocial, AuthorCenteredSocial:
			default:
				add(path, "unknown author style %q", v.Style)
			}
		case *Video:
			if v.Src == "" {
				add(path, "video without src")
			}
		case *Embed:
			if v.Src == "" {
				add(path, "%s without src", v.Type)
			}
		case *List:
			if len(v.Items) > 0 && len(v.Visible()) == 0 {
				add(path, "all list items are blank")
			}
		case *Subheading:
			if strings.TrimSpace(v.Text) == "" {
				add(path, "empty subheading")
			}
		}
	}
	return errs
}

// Describe lists problems found by Validate one per line, empty for clean
// documents.
func Describe(problems error) string {
	var sb strings.Builder
	for _, p := range multierr.Errors(problems) {
		sb.WriteString(p.Error())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func knownMark(m Mark) bool {
	return slices.Contains(MarkOrder, m)
}
