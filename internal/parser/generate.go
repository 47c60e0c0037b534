package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"
	"github.com/jinzhu/inflection"

	"github.com/structgen/buildergen/internal/model"
)

// DefaultSuffix is appended to the source struct name to form the builder
// type name.
const DefaultSuffix = "Builder"

// GenerateFile renders one builder type per collected struct into a file
// that belongs to pkgPath/pkgName. jennifer resolves the source package
// qualifier automatically, so the same rendering serves both same-package
// and cross-package output.
func (p *Parser) GenerateFile(pkgPath, pkgName string) *jen.File {
	suffix := p.Opts.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}

	f := jen.NewFilePathName(pkgPath, pkgName)
	f.HeaderComment("Code generated by buildergen. DO NOT EDIT.")

	for _, ss := range p.Structs {
		p.generateBuilder(f, ss, suffix)
	}

	return f
}

// names holds the resolved member names for one field.
type names struct {
	slot     string
	setter   string
	push     string
	pushMany string
	replace  string
}

func (p *Parser) generateBuilder(f *jen.File, ss *model.StructSpec, suffix string) {
	builderName := ss.Name + suffix
	fieldNames := resolveNames(ss)

	// Storage type: one optional-wrapper slot per settable field, the
	// slice itself for sequence fields, nothing for skipped ones. The
	// source struct's doc travels with the builder, minus the marker.
	f.Commentf("%s assembles %s values through chained setter calls.", builderName, ss.Name)
	carryDoc(f, ss.Comment)
	f.Type().Id(builderName).StructFunc(func(g *jen.Group) {
		for _, fld := range ss.Fields {
			class, inner := Classify(fld.Type, fld.Directive)
			n := fieldNames[fld.Name]
			switch class {
			case model.Skipped:
			case model.Sequence:
				g.Id(n.slot).Index().Add(p.typeJen(p.resolveTypeRef(ss.Imports, inner)))
			case model.Optional:
				g.Id(n.slot).Op("*").Add(p.typeJen(p.resolveTypeRef(ss.Imports, inner)))
			default:
				g.Id(n.slot).Op("*").Add(p.typeJen(p.resolveTypeRef(ss.Imports, fld.Type)))
			}
		}
	})

	// Constructor: every slot starts absent, sequences start empty.
	f.Commentf("New%s returns a builder with every slot in its unset state.", builderName)
	f.Func().Id("New"+builderName).Params().Op("*").Id(builderName).Block(
		jen.Return(jen.Op("&").Id(builderName).ValuesFunc(func(g *jen.Group) {
			for _, fld := range ss.Fields {
				class, inner := Classify(fld.Type, fld.Directive)
				if class != model.Sequence {
					continue
				}
				n := fieldNames[fld.Name]
				g.Id(n.slot).Op(":").Index().Add(p.typeJen(p.resolveTypeRef(ss.Imports, inner))).Values()
			}
		})),
	)

	for _, fld := range ss.Fields {
		p.generateSetters(f, ss, fld, builderName, fieldNames[fld.Name])
	}

	p.generateBuild(f, ss, builderName, fieldNames)
}

func (p *Parser) generateSetters(f *jen.File, ss *model.StructSpec, fld *model.FieldSpec, builderName string, n names) {
	recv := jen.Id("b").Op("*").Id(builderName)
	class, inner := Classify(fld.Type, fld.Directive)

	switch class {
	case model.Skipped:
		return

	case model.Sequence:
		elem := p.typeJen(p.resolveTypeRef(ss.Imports, inner))

		f.Commentf("%s appends one element to %s.", n.push, fld.Name)
		carryDoc(f, fld.Comment)
		f.Func().Params(recv.Clone()).Id(n.push).
			Params(jen.Id("value").Add(elem.Clone())).
			Op("*").Id(builderName).
			Block(
				jen.Id("b").Dot(n.slot).Op("=").Append(jen.Id("b").Dot(n.slot), jen.Id("value")),
				jen.Return(jen.Id("b")),
			)

		f.Commentf("%s appends the given elements to %s in order.", n.pushMany, fld.Name)
		f.Func().Params(recv.Clone()).Id(n.pushMany).
			Params(jen.Id("values").Op("...").Add(elem.Clone())).
			Op("*").Id(builderName).
			Block(
				jen.Id("b").Dot(n.slot).Op("=").Append(jen.Id("b").Dot(n.slot), jen.Id("values").Op("...")),
				jen.Return(jen.Id("b")),
			)

		f.Commentf("%s replaces the contents of %s.", n.replace, fld.Name)
		f.Func().Params(recv.Clone()).Id(n.replace).
			Params(jen.Id("values").Index().Add(elem.Clone())).
			Op("*").Id(builderName).
			Block(
				jen.Id("b").Dot(n.slot).Op("=").Id("values"),
				jen.Return(jen.Id("b")),
			)

	case model.Optional:
		// The setter takes the inner type; absence stays representable
		// by never calling it.
		f.Commentf("%s sets %s.", n.setter, fld.Name)
		carryDoc(f, fld.Comment)
		f.Func().Params(recv.Clone()).Id(n.setter).
			Params(jen.Id("value").Add(p.typeJen(p.resolveTypeRef(ss.Imports, inner)))).
			Op("*").Id(builderName).
			Block(
				jen.Id("b").Dot(n.slot).Op("=").Op("&").Id("value"),
				jen.Return(jen.Id("b")),
			)

	default: // Required, Defaulted
		f.Commentf("%s sets %s.", n.setter, fld.Name)
		carryDoc(f, fld.Comment)
		f.Func().Params(recv.Clone()).Id(n.setter).
			Params(jen.Id("value").Add(p.typeJen(p.resolveTypeRef(ss.Imports, fld.Type)))).
			Op("*").Id(builderName).
			Block(
				jen.Id("b").Dot(n.slot).Op("=").Op("&").Id("value"),
				jen.Return(jen.Id("b")),
			)
	}
}

// generateBuild emits the assembly routine: fields are visited in
// declaration order and the first unset required field aborts with an
// error naming it.
func (p *Parser) generateBuild(f *jen.File, ss *model.StructSpec, builderName string, fieldNames map[string]names) {
	target := jen.Qual(ss.PkgPath, ss.Name)

	f.Commentf("Build assembles a %s, failing on the first required field that was never set.", ss.Name)
	f.Func().Params(jen.Id("b").Op("*").Id(builderName)).Id("Build").
		Params().
		Params(target.Clone(), jen.Error()).
		BlockFunc(func(g *jen.Group) {
			g.Var().Id("out").Add(target.Clone())
			for _, fld := range ss.Fields {
				class, _ := Classify(fld.Type, fld.Directive)
				n := fieldNames[fld.Name]
				switch class {
				case model.Required:
					g.If(jen.Id("b").Dot(n.slot).Op("==").Nil()).Block(
						jen.Return(
							target.Clone().Values(),
							jen.Qual("fmt", "Errorf").Call(jen.Lit("field %q is missing"), jen.Lit(fld.Name)),
						),
					)
					g.Id("out").Dot(fld.Name).Op("=").Op("*").Id("b").Dot(n.slot)
				case model.Defaulted:
					g.If(jen.Id("b").Dot(n.slot).Op("!=").Nil()).Block(
						jen.Id("out").Dot(fld.Name).Op("=").Op("*").Id("b").Dot(n.slot),
					).Else().Block(
						jen.Id("out").Dot(fld.Name).Op("=").Id(fld.Directive.DefaultExpr),
					)
				case model.Optional:
					if fld.Directive.HasDefault {
						// Explicit default wins over "absent"; the
						// expression must be pointer-typed like the field.
						g.If(jen.Id("b").Dot(n.slot).Op("!=").Nil()).Block(
							jen.Id("out").Dot(fld.Name).Op("=").Id("b").Dot(n.slot),
						).Else().Block(
							jen.Id("out").Dot(fld.Name).Op("=").Id(fld.Directive.DefaultExpr),
						)
					} else {
						g.Id("out").Dot(fld.Name).Op("=").Id("b").Dot(n.slot)
					}
				case model.Sequence:
					g.Id("out").Dot(fld.Name).Op("=").Id("b").Dot(n.slot)
				case model.Skipped:
					if fld.Directive.HasDefault {
						g.Id("out").Dot(fld.Name).Op("=").Id(fld.Directive.DefaultExpr)
					}
					// Without a constant the field keeps its zero value.
				}
			}
			g.Return(jen.Id("out"), jen.Nil())
		})
}

// carryDoc copies source doc lines onto the generated declaration,
// dropping the generation marker.
func carryDoc(f *jen.File, doc string) {
	for _, line := range strings.Split(doc, "\n") {
		if line == "" || strings.HasPrefix(line, Marker) {
			continue
		}
		f.Comment(line)
	}
}

// typeJen renders a TypeRef.
func (p *Parser) typeJen(tr *model.TypeRef) *jen.Statement {
	switch {
	case tr == nil:
		return jen.Id("any")
	case tr.IsPtr:
		return jen.Op("*").Add(p.typeJen(tr.Elem))
	case tr.IsSlice:
		return jen.Index().Add(p.typeJen(tr.Elem))
	case tr.PkgPath != "":
		return jen.Qual(tr.PkgPath, tr.Name)
	default:
		return jen.Id(tr.Name)
	}
}

// resolveNames picks slot and method names for every field of a struct,
// keeping slots clear of the method namespace (Go fields and methods
// share one).
func resolveNames(ss *model.StructSpec) map[string]names {
	out := make(map[string]names, len(ss.Fields))
	taken := map[string]bool{"Build": true}

	for _, fld := range ss.Fields {
		d := fld.Directive
		n := names{
			setter:   d.SetterName,
			push:     d.PushName,
			pushMany: d.PushManyName,
			replace:  d.SetName,
		}
		if n.setter == "" {
			n.setter = fld.Name
		}
		if n.push == "" {
			n.push = "Add" + upperFirst(inflection.Singular(fld.Name))
		}
		if n.pushMany == "" {
			n.pushMany = "Add" + upperFirst(inflection.Plural(fld.Name))
		}
		if n.replace == "" {
			// setter also names the replace method unless setter_set
			// overrides it.
			if d.SetterName != "" {
				n.replace = d.SetterName
			} else {
				n.replace = "Set" + upperFirst(fld.Name)
			}
		}

		class, _ := Classify(fld.Type, d)
		if class != model.Skipped {
			switch class {
			case model.Sequence:
				taken[n.push] = true
				taken[n.pushMany] = true
				taken[n.replace] = true
			default:
				taken[n.setter] = true
			}
		}
		out[fld.Name] = n
	}

	for _, fld := range ss.Fields {
		n := out[fld.Name]
		n.slot = lowerFirst(fld.Name)
		for taken[n.slot] {
			n.slot += "Val"
		}
		taken[n.slot] = true
		out[fld.Name] = n
	}

	return out
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
