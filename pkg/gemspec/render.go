// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gemspec

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/palladius/gcloud/pkg/constants"
)

const gemspecTemplate = `# -*- encoding: utf-8 -*-

Gem::Specification.new do |s|
  s.name        = {{ ruby .Descriptor.Name }}
  s.version     = {{ ruby .Descriptor.Version }}
  s.summary     = {{ ruby .Descriptor.Summary }}
  s.description = {{ ruby .Descriptor.Description }}
  s.homepage    = {{ ruby .Descriptor.Homepage }}
  s.authors     = [{{ ruby .Descriptor.Author }}]
  s.email       = {{ ruby .Descriptor.Email }}
  s.bindir      = "bin"
  s.executables = {{ rubyList .Descriptor.Executables }}
  s.files       = {{ rubyList .Files }}
{{- if .Descriptor.Signed }}
  s.signing_key = File.expand_path("~/.gem/gem-private_key.pem") if $0 =~ /gem\z/
  s.cert_chain  = ["gem-public_cert.pem"]
{{- end }}
end
`

var gemspecTmpl = template.Must(template.New("gemspec").Funcs(template.FuncMap{
	"ruby":     rubyString,
	"rubyList": rubyList,
}).Parse(gemspecTemplate))

// rubyString quotes s as a single quoted Ruby literal.
func rubyString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}

func rubyList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = rubyString(item)
	}
	if len(items) == 1 {
		return "[" + quoted[0] + "]"
	}
	return "[\n    " + strings.Join(quoted, ",\n    ") + "\n  ]"
}

// RenderGemspec renders the Ruby gemspec for d listing files.
func RenderGemspec(d Descriptor, files []string) (string, error) {
	var buf bytes.Buffer
	err := gemspecTmpl.Execute(&buf, struct {
		Descriptor Descriptor
		Files      []string
	}{d, sortUnique(files)})
	if err != nil {
		return "", fmt.Errorf("failed to render gemspec for %s: %w", d.Name, err)
	}
	return buf.String(), nil
}

// WriteGemspec writes <name>.gemspec into dir and returns its path.
func WriteGemspec(dir string, d Descriptor, files []string) (string, error) {
	text, err := RenderGemspec(d, files)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, d.GemspecFileName())
	if err := os.WriteFile(path, []byte(text), constants.WriteReadReadPerms); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
