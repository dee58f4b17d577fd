package preview

import (
	"bytes"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"newsview/config"
	"newsview/loader"
)

// Values holds variables available for output name template expansion.
type Values struct {
	Context string
	// ID is document identifier, empty for preview state files.
	ID         string
	Theme      string
	Blocks     int
	SourceFile string
}

func buildValues(snap loader.Snapshot, sourceFile string) Values {
	v := Values{
		Context:    string(config.OutputNameTemplateFieldName),
		ID:         snap.ID,
		SourceFile: sourceFile,
		Blocks:     len(snap.Blocks()),
	}
	if snap.Doc != nil {
		v.Theme = string(snap.Doc.Theme)
	}
	return v
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}
