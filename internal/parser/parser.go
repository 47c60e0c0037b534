package parser

import (
	"fmt"
	"go/ast"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"

	"github.com/structgen/buildergen/internal/model"
)

// Marker is the doc-comment directive that opts a struct into builder
// generation when no explicit type list is configured.
const Marker = "buildergen:builder"

// Options control a parse run.
type Options struct {
	Dir    string   // package directory to scan
	Types  []string // explicit struct names; empty means marker-driven selection
	Suffix string   // builder type suffix, "Builder" when empty
}

// Parser holds the state and results of one parse run.
type Parser struct {
	Opts Options

	Fset *token.FileSet

	PkgName string
	PkgPath string
	Structs []*model.StructSpec
}

func New(opts Options) *Parser {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	return &Parser{
		Opts:    opts,
		Fset:    token.NewFileSet(),
		Structs: make([]*model.StructSpec, 0),
	}
}

// Parse loads the package at Opts.Dir, collects the annotated structs in
// declaration order, and parses each field's directives. The first
// directive error aborts the run, carrying the field's source position.
func (p *Parser) Parse() error {
	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:  p.Opts.Dir,
		Fset: p.Fset,
	}, ".")
	if err != nil {
		return err
	}

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return fmt.Errorf("loading %s: %v", pkg.PkgPath, pkg.Errors[0])
		}
		if p.PkgName == "" {
			p.PkgName = pkg.Name
			p.PkgPath = pkg.PkgPath
		}
		for _, file := range pkg.Syntax {
			if err := p.collectStructs(file, fileImports(file)); err != nil {
				return err
			}
		}
	}

	return nil
}

// fileImports builds the alias to import path table of one file. Two files
// of the same package may import different packages under the same base
// name, so selectors must resolve against the declaring file's table only.
func fileImports(file *ast.File) map[string]string {
	out := make(map[string]string, len(file.Imports))
	for _, imp := range file.Imports {
		path := strings.Trim(imp.Path.Value, `"`)
		alias := filepath.Base(path)
		if imp.Name != nil && imp.Name.Name != "_" && imp.Name.Name != "." {
			alias = imp.Name.Name
		}
		out[alias] = path
	}
	return out
}

func (p *Parser) collectStructs(file *ast.File, imports map[string]string) error {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}

		genComment := commentText(gen.Doc)

		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}

			typeComment := genComment
			if ts.Doc != nil {
				if docTxt := commentText(ts.Doc); docTxt != "" {
					if typeComment == "" {
						typeComment = docTxt
					} else {
						typeComment += "\n" + docTxt
					}
				}
			}

			if !p.wantStruct(ts.Name.Name, typeComment) {
				continue
			}

			if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
				slog.Debug("skipping generic struct", "type", ts.Name.Name)
				continue
			}

			ss := &model.StructSpec{
				Name:    ts.Name.Name,
				PkgName: p.PkgName,
				PkgPath: p.PkgPath,
				Comment: typeComment,
				Pos:     p.Fset.Position(ts.Pos()),
				Fields:  make([]*model.FieldSpec, 0, len(st.Fields.List)),
				Imports: imports,
			}

			for _, fld := range st.Fields.List {
				fields, err := p.parseFields(ss.Name, fld)
				if err != nil {
					return err
				}
				ss.Fields = append(ss.Fields, fields...)
			}

			p.Structs = append(p.Structs, ss)
		}
	}

	return nil
}

// wantStruct applies the explicit type list when given, otherwise the
// doc-comment marker.
func (p *Parser) wantStruct(name, comment string) bool {
	if len(p.Opts.Types) > 0 {
		for _, t := range p.Opts.Types {
			if t == name {
				return true
			}
		}
		return false
	}
	for _, line := range strings.Split(comment, "\n") {
		if strings.TrimSpace(line) == Marker {
			return true
		}
	}
	return false
}

// parseFields expands one field declaration (which may carry several
// names) into FieldSpecs with parsed directives.
func (p *Parser) parseFields(structName string, f *ast.Field) ([]*model.FieldSpec, error) {
	var (
		out []*model.FieldSpec
		tag string
	)

	if f.Tag != nil {
		raw := strings.Trim(f.Tag.Value, "`")
		tag = reflect.StructTag(raw).Get(TagKey)
	}

	names := make([]string, 0, len(f.Names))
	for _, id := range f.Names {
		names = append(names, id.Name)
	}
	if len(names) == 0 {
		// Embedded field: the selector name stands in for the field name.
		if name := embeddedFieldName(f.Type); name != "" {
			names = append(names, name)
		}
	}

	for _, name := range names {
		pos := p.Fset.Position(f.Pos())
		d, err := ParseDirective(tag)
		if err != nil {
			return nil, fmt.Errorf("%s: struct %s, field %s: %w", pos, structName, name, err)
		}
		out = append(out, &model.FieldSpec{
			Name:      name,
			Type:      f.Type,
			Pos:       pos,
			Comment:   commentText(f.Doc),
			Directive: d,
		})
	}

	return out, nil
}

func embeddedFieldName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.StarExpr:
		return embeddedFieldName(t.X)
	}
	return ""
}

func commentText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range cg.List {
		txt := strings.TrimSpace(strings.Trim(strings.TrimPrefix(strings.TrimPrefix(c.Text, "//"), "/*"), "*/"))
		b.WriteString(txt)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// ImportPath resolves the import path of a directory by walking up to the
// enclosing go.mod and joining the module path with the relative dir. Used
// when generated output lands outside the scanned package and must import
// it.
func ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	from := abs
	for {
		data, err := os.ReadFile(filepath.Join(from, "go.mod"))
		if err == nil {
			mf, err := modfile.Parse("go.mod", data, nil)
			if err != nil {
				return "", fmt.Errorf("parsing %s/go.mod: %w", from, err)
			}
			rel, err := filepath.Rel(from, abs)
			if err != nil {
				return "", err
			}
			if rel == "." {
				return mf.Module.Mod.Path, nil
			}
			return mf.Module.Mod.Path + "/" + filepath.ToSlash(rel), nil
		}
		parent := filepath.Dir(from)
		if parent == from {
			return "", fmt.Errorf("no go.mod found above %s", abs)
		}
		from = parent
	}
}
