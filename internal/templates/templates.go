package templates

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
)

//go:embed files/*
var TplFS embed.FS

// WriteTpl loads tplName from TplFS, executes it with data, and writes to outPath
func WriteTpl(tplName, outPath string, data any) error {
	t, err := template.New(filepath.Base(tplName)).ParseFS(TplFS, tplName)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", tplName, err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", outPath, err)
	}
	defer f.Close()

	if err := t.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", outPath, err)
	}
	return nil
}
