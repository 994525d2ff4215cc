package render

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/kubelab/playground/internal/assets"
)

type Engine struct {
	funcs template.FuncMap
}

func NewEngine() *Engine {
	fm := sprig.TxtFuncMap()
	for name, fn := range playgroundFuncs() {
		fm[name] = fn
	}
	return &Engine{funcs: fm}
}

func (e *Engine) RenderString(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Funcs(e.funcs).Option("missingkey=error").Parse(tpl)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (e *Engine) RenderFile(path string, data map[string]any) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := e.RenderString(path, string(b), data)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// RenderAsset renders a workdir asset template. A template placed under
// <dir>/templates, next to the cluster spec, overrides the embedded copy.
func (e *Engine) RenderAsset(dir, name string, data map[string]any) ([]byte, error) {
	override := filepath.Join(dir, "templates", name+".tmpl")
	if _, err := os.Stat(override); err == nil {
		return e.RenderFile(override, data)
	}
	tpl, err := assets.Template(name)
	if err != nil {
		return nil, err
	}
	s, err := e.RenderString(name, tpl, data)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
