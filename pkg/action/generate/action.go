package generate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/structgen/buildergen/internal/parser"
	"github.com/structgen/buildergen/pkg/generator"
)

// Result describes one generation run.
type Result struct {
	File     string
	Builders []string
}

// Generate scans the input package, synthesizes builders for the selected
// structs, and writes the generated file. No output is written when any
// field carries a malformed directive.
func Generate(o *generator.Options) (*Result, error) {
	o.Normalize()

	p := parser.New(parser.Options{
		Dir:    o.InDir,
		Types:  o.Types,
		Suffix: o.Suffix,
	})
	if err := p.Parse(); err != nil {
		return nil, err
	}
	if len(p.Structs) == 0 {
		return nil, fmt.Errorf("no matching structs in %s", o.InDir)
	}

	pkgPath, pkgName := p.PkgPath, p.PkgName
	if !o.SamePackage() {
		var err error
		if pkgPath, err = parser.ImportPath(o.OutDir); err != nil {
			return nil, err
		}
		pkgName = filepath.Base(o.OutDir)
	}

	f := p.GenerateFile(pkgPath, pkgName)

	if err := os.MkdirAll(o.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	outFile := filepath.Join(o.OutDir, o.OutFile)
	ff, err := os.OpenFile(outFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", outFile, err)
	}
	defer func() { _ = ff.Close() }()

	if err := f.Render(ff); err != nil {
		return nil, fmt.Errorf("render %s: %w", outFile, err)
	}

	res := &Result{File: outFile}
	for _, ss := range p.Structs {
		res.Builders = append(res.Builders, ss.Name+o.Suffix)
	}
	slog.Info("generated builders", "file", outFile, "builders", len(res.Builders))

	return res, nil
}
