package block

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
)

var constructors = map[Kind]func() Block{
	KindParagraph:  func() Block { return &Paragraph{} },
	KindSubheading: func() Block { return &Subheading{} },
	KindImage:      func() Block { return &Image{} },
	KindGallery:    func() Block { return &Gallery{} },
	KindAuthor:     func() Block { return &Author{} },
	KindVideo:      func() Block { return &Video{} },
	KindYouTube:    func() Block { return &Embed{Type: KindYouTube} },
	KindEmbed:      func() Block { return &Embed{Type: KindEmbed} },
	KindQuote:      func() Block { return &Quote{} },
	KindList:       func() Block { return &List{} },
	KindAd:         func() Block { return &Ad{} },
}

// Decode reads document JSON `{"blocks": [...], "theme": "..."}`. Absent
// blocks produce an empty document, absent theme is replaced with def.
//
// Only problems with the document envelope are returned as error. Every
// block which cannot be decoded is kept in its place as *Malformed and the
// reason is reported in warnings, so a single broken block never prevents
// rendering of its siblings.
func Decode(r io.Reader, def Theme) (*Document, []error, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, wrap("document", "", err)
	}
	return DecodeBytes(data, def)
}

// DecodeBytes is Decode for in-memory data.
func DecodeBytes(data []byte, def Theme) (*Document, []error, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, nil, wrap("document", "", err)
	}
	if envelope == nil {
		return nil, nil, wrap("document", "", ErrExpectedObject)
	}

	doc := &Document{Theme: def}
	var warnings []error

	if raw, ok := envelope["theme"]; ok && !isNull(raw) {
		var theme string
		if err := json.Unmarshal(raw, &theme); err != nil {
			warnings = append(warnings, wrap("theme", "theme", fmt.Errorf("%w: theme must be a string", ErrInvalidValue)))
		} else if theme != "" {
			doc.Theme = Theme(theme)
		}
	}

	raw, ok := envelope["blocks"]
	if !ok || isNull(raw) {
		doc.Blocks = []Block{}
		return doc, warnings, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, warnings, wrap("document", "blocks", ErrExpectedArray)
	}

	doc.Blocks = make([]Block, 0, len(items))
	for i, item := range items {
		b, problems := decodeBlock(item, fmt.Sprintf("blocks[%d]", i))
		warnings = append(warnings, problems...)
		doc.Blocks = append(doc.Blocks, b)
	}
	return doc, warnings, nil
}

// decodeBlock always returns a block, when it could not be decoded it is
// *Malformed. Presentation fields of wrong shape are dropped and reported,
// the block itself survives.
func decodeBlock(data []byte, path string) (Block, []error) {
	var head struct {
		Type json.RawMessage `json:"type"`
		ID   ID              `json:"id"`
	}
	if len(bytes.TrimSpace(data)) == 0 || data[firstNonSpace(data)] != '{' {
		return &Malformed{Err: ErrExpectedObject}, []error{wrap("block", path, ErrExpectedObject)}
	}
	if err := json.Unmarshal(data, &head); err != nil {
		// id of unexpected shape, type is still useful for diagnostics
		head.ID = ""
		var typeOnly struct {
			Type json.RawMessage `json:"type"`
		}
		if json.Unmarshal(data, &typeOnly) != nil {
			return &Malformed{Err: err}, []error{wrap("block", path, err)}
		}
		head.Type = typeOnly.Type
	}
	if head.Type == nil || isNull(head.Type) {
		return &Malformed{Common: Common{ID: head.ID}, Err: ErrMissingType}, []error{wrap("block", path, ErrMissingType)}
	}
	var kind Kind
	if err := json.Unmarshal(head.Type, &kind); err != nil || kind == "" {
		return &Malformed{Common: Common{ID: head.ID}, Err: ErrInvalidType}, []error{wrap("block", path, ErrInvalidType)}
	}

	construct, known := constructors[kind]
	if !known {
		u := &Unknown{Type: kind, Raw: json.RawMessage(data)}
		u.ID = head.ID
		return u, nil
	}
	b := construct()
	if err := json.Unmarshal(data, b); err == nil {
		return b, nil
	}

	b = construct()
	warnings, err := decodeLenient(data, b, path)
	if err != nil {
		err = wrap("block", path, fmt.Errorf("%s: %w", kind, err))
		return &Malformed{Common: Common{ID: head.ID}, Type: kind, Err: err}, append(warnings, err)
	}
	return b, warnings
}

// presentation reports whether broken field could be ignored without losing
// block content.
func presentation(name string, err error) bool {
	switch name {
	case "id", "link", "styles":
		return true
	}
	return errors.Is(err, ErrInvalidValue)
}

// decodeLenient decodes block object field by field. Styles are decoded
// property by property.
func decodeLenient(data []byte, b Block, path string) ([]error, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	styles, haveStyles := fields["styles"]
	delete(fields, "styles")

	warnings, err := decodeFields(fields, b, path, presentation)
	if err != nil {
		return warnings, err
	}
	if !haveStyles || isNull(styles) {
		return warnings, nil
	}

	var props map[string]json.RawMessage
	if err := json.Unmarshal(styles, &props); err != nil || props == nil {
		return append(warnings, wrap("block", path+".styles", fmt.Errorf("%w: styles must be an object, ignored", ErrInvalidValue))), nil
	}
	st := &Styles{}
	more, _ := decodeFields(props, st, path+".styles", func(string, error) bool { return true })
	b.Base().Styles = st
	return append(warnings, more...), nil
}

// decodeFields unmarshals fields into target one at a time. A field failing
// with tolerated error is reset to its zero value and reported, any other
// failure stops decoding.
func decodeFields(fields map[string]json.RawMessage, target any, path string, tolerated func(name string, err error) bool) ([]error, error) {
	var warnings []error
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		err := unmarshalField(target, name, fields[name])
		if err == nil {
			continue
		}
		if !tolerated(name, err) {
			return warnings, err
		}
		_ = unmarshalField(target, name, json.RawMessage("null"))
		warnings = append(warnings, wrap("block", path+"."+name, fmt.Errorf("%w, ignored", err)))
	}
	return warnings, nil
}

func unmarshalField(target any, name string, raw json.RawMessage) error {
	single, err := json.Marshal(map[string]json.RawMessage{name: raw})
	if err != nil {
		return err
	}
	return json.Unmarshal(single, target)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func firstNonSpace(data []byte) int {
	return len(data) - len(bytes.TrimLeft(data, " \t\r\n"))
}
