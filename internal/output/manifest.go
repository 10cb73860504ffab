package output

import (
	"bytes"
	"fmt"
	"strconv"
	"text/template"
	"time"
)

const manifestTemplate = `// Auto-generated song manifest
// This file is automatically updated by the sync script
// Last updated: {{ .Updated }}

export const SONG_MANIFEST = [
{{- range .Files }}
  {{ quote . }},
{{- end }}
] as const

export type SongFilename = typeof SONG_MANIFEST[number]
`

var manifestTmpl = template.Must(template.New("manifest").
	Funcs(template.FuncMap{"quote": strconv.Quote}).
	Parse(manifestTemplate))

type manifestData struct {
	Updated string
	Files   []string
}

// RenderManifest renders the TypeScript manifest for the given file names.
// Names are emitted in the order given.
func RenderManifest(files []string, updated time.Time) ([]byte, error) {
	var buf bytes.Buffer

	data := manifestData{
		Updated: updated.UTC().Format(time.RFC3339),
		Files:   files,
	}

	if err := manifestTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render manifest: %w", err)
	}

	return buf.Bytes(), nil
}
