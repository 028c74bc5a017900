// Package jsrun executes a package's bootstrap script in an embedded
// ECMAScript engine against a stub document, capturing what the page would
// render.
package jsrun

import (
	"fmt"
	"time"

	"github.com/dop251/goja"

	"github.com/dtnitsch/m8pack/pkg/pack"
)

// documentStub records what the bootstrap does to the hosting page.
const documentStub = `
var __m8 = {opens: 0, closes: 0, written: []};
var document = {
	title: "Loading...",
	open: function () { __m8.opens++; },
	write: function (s) { __m8.written.push(String(s)); },
	close: function () { __m8.closes++; }
};
`

// Render is what the page looks like after the bootstrap ran.
type Render struct {
	HTML   string
	Title  string
	Opens  int
	Writes int
	Closes int
}

// Run executes the script of pkg and returns the rendered document. The
// script is interrupted after timeout; zero means no limit.
func Run(pkg string, timeout time.Duration) (*Render, error) {
	script, err := pack.Script(pkg)
	if err != nil {
		return nil, err
	}

	vm := goja.New()
	if timeout > 0 {
		timer := time.AfterFunc(timeout, func() {
			vm.Interrupt("timeout")
		})
		defer timer.Stop()
	}

	if _, err := vm.RunString(documentStub); err != nil {
		return nil, fmt.Errorf("installing document stub: %w", err)
	}
	if _, err := vm.RunScript("bootstrap.js", script); err != nil {
		return nil, fmt.Errorf("running bootstrap: %w", err)
	}

	out, err := vm.RunString(`[__m8.written.join(""), String(document.title), __m8.opens, __m8.written.length, __m8.closes]`)
	if err != nil {
		return nil, fmt.Errorf("reading render: %w", err)
	}
	var fields []any
	if err := vm.ExportTo(out, &fields); err != nil {
		return nil, fmt.Errorf("exporting render: %w", err)
	}
	return &Render{
		HTML:   fields[0].(string),
		Title:  fields[1].(string),
		Opens:  toInt(fields[2]),
		Writes: toInt(fields[3]),
		Closes: toInt(fields[4]),
	}, nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}
