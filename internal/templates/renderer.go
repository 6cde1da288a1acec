package templates

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/graceinfra/zoscore/types"
)

var allowedNewlines = map[string]string{
	"\n":   "\n",
	"\r":   "\r",
	"\r\n": "\r\n",
	`\n`:   "\n",
	`\r`:   "\r",
	`\r\n`: "\r\n",
}

// Renderer expands a JCL or text template before it is shipped to the host.
type Renderer struct {
	startDelim          string
	endDelim            string
	newline             string
	keepTrailingNewline bool
}

// NewRenderer builds a Renderer from task options. Escaped newline sequences
// such as `\r\n` typed literally in YAML are accepted.
func NewRenderer(cfg types.TemplateConfig) (*Renderer, error) {
	r := &Renderer{
		startDelim:          "{{",
		endDelim:            "}}",
		newline:             "\n",
		keepTrailingNewline: cfg.KeepTrailingNewline,
	}
	if cfg.VariableStartString != "" {
		r.startDelim = cfg.VariableStartString
	}
	if cfg.VariableEndString != "" {
		r.endDelim = cfg.VariableEndString
	}
	if cfg.NewlineSequence != "" {
		nl, ok := allowedNewlines[cfg.NewlineSequence]
		if !ok {
			return nil, fmt.Errorf("newline sequence %q is not valid; use \\n, \\r or \\r\\n", cfg.NewlineSequence)
		}
		r.newline = nl
	}
	return r, nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"ToUpper": strings.ToUpper,
		"ToLower": strings.ToLower,
		"Default": func(defVal any, givenVal ...any) any {
			if len(givenVal) > 0 && givenVal[0] != nil {
				// An empty string still falls back to the default
				if s, ok := givenVal[0].(string); !ok || s != "" {
					return givenVal[0]
				}
			}
			return defVal
		},
	}
}

// Render executes content with vars. Line endings in the output follow the
// configured newline sequence.
func (r *Renderer) Render(name, content string, vars map[string]any) (string, error) {
	tpl, err := template.New(name).Delims(r.startDelim, r.endDelim).Funcs(funcMap()).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse template '%s': %w", name, err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to execute template '%s': %w", name, err)
	}

	out := strings.ReplaceAll(buf.String(), "\r\n", "\n")
	if !r.keepTrailingNewline {
		out = strings.TrimSuffix(out, "\n")
	}
	if r.newline != "\n" {
		out = strings.ReplaceAll(out, "\n", r.newline)
	}
	return out, nil
}

// RenderToTemp renders the file at path into a new temporary file and
// returns its name. The caller removes it.
func (r *Renderer) RenderToTemp(path string, vars map[string]any) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", path, err)
	}

	rendered, err := r.Render(path, string(content), vars)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "zoscore-*.jcl")
	if err != nil {
		return "", fmt.Errorf("failed to create rendered template file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(rendered); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write rendered template %s: %w", f.Name(), err)
	}
	return f.Name(), nil
}
