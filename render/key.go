package render

import (
	"fmt"
	"reflect"

	"newsview/block"
)

// Key returns stable identity: explicit id when present, positional
// fallback otherwise.
func Key(id block.ID, prefix string, index int) string {
	if id != "" {
		return string(id)
	}
	return fmt.Sprintf("%s-%d", prefix, index)
}

// BlockKey is the key of block container at position index.
func BlockKey(b block.Block, index int) string {
	if isNil(b) {
		return Key("", "preview", index)
	}
	return Key(b.Base().ID, "preview", index)
}

func isNil(b block.Block) bool {
	if b == nil {
		return true
	}
	v := reflect.ValueOf(b)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
