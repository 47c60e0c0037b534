package parser

import (
	"go/ast"
	"go/types"

	"github.com/structgen/buildergen/internal/model"
)

// Classify selects the generation strategy for a field from its declared
// type shape and parsed directive. It is total: shapes that are neither a
// pointer (the present-or-absent wrapper) nor a slice (the sequence shape)
// are treated as opaque scalars. For Optional and Sequence the returned
// expression is the inner/element type; otherwise it is the declared type.
func Classify(ty ast.Expr, d model.Directive) (model.Classification, ast.Expr) {
	if d.Skip {
		return model.Skipped, ty
	}

	switch t := ty.(type) {
	case *ast.StarExpr:
		// Outer shape wins: *[]T is Optional-of-sequence, not Sequence.
		return model.Optional, t.X

	case *ast.ArrayType:
		if t.Len == nil {
			return model.Sequence, t.Elt
		}
	}

	if d.HasDefault {
		return model.Defaulted, ty
	}

	return model.Required, ty
}

// resolveTypeRef converts a declared type expression into a render-ready
// TypeRef graph, resolving pkg.Type selectors to import paths through the
// declaring file's import table. Shapes with no structural meaning to the
// generator (maps, funcs, channels, fixed arrays) are carried as raw
// expression text.
func (p *Parser) resolveTypeRef(imports map[string]string, expr ast.Expr) *model.TypeRef {
	switch t := expr.(type) {
	case *ast.Ident:
		if _, ok := builtinIdents[t.Name]; ok {
			return &model.TypeRef{Name: t.Name}
		}
		// Local named type: qualify with the scanned package so output
		// placed in another package imports it. jennifer drops the
		// qualifier again when rendering into the same package.
		return &model.TypeRef{PkgPath: p.PkgPath, Name: t.Name}

	case *ast.StarExpr:
		return &model.TypeRef{
			IsPtr: true,
			Elem:  p.resolveTypeRef(imports, t.X),
		}

	case *ast.ArrayType:
		if t.Len == nil {
			return &model.TypeRef{
				IsSlice: true,
				Elem:    p.resolveTypeRef(imports, t.Elt),
			}
		}

	case *ast.SelectorExpr:
		if pkgIdent, ok := t.X.(*ast.Ident); ok {
			if path, ok := imports[pkgIdent.Name]; ok {
				return &model.TypeRef{
					PkgPath: path,
					Name:    t.Sel.Name,
				}
			}
		}
	}

	// Opaque scalar: keep the source text verbatim.
	return &model.TypeRef{Name: types.ExprString(expr)}
}

var builtinIdents = map[string]struct{}{
	"string": {}, "bool": {}, "byte": {}, "rune": {}, "int": {}, "int8": {}, "int16": {},
	"int32": {}, "int64": {}, "uint": {}, "uint8": {}, "uint16": {}, "uint32": {}, "uint64": {},
	"float32": {}, "float64": {}, "complex64": {}, "complex128": {}, "error": {}, "any": {},
}
