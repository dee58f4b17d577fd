package config

import "unicode/utf8"

const (
	maxFileNameLen = 200
	badFileName    = "_bad_file_name_"
)

// finishFileName limits length without splitting multibyte characters.
func finishFileName(name string) string {
	if len(name) > maxFileNameLen {
		cut := maxFileNameLen
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	if len(name) == 0 {
		return badFileName
	}
	return name
}
