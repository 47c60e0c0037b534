package parser

import (
	goparser "go/parser"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/structgen/buildergen/internal/model"
)

// scan parses src as a single file of the given package and runs the
// collection phase over it, bypassing the packages.Load round trip.
func scan(t *testing.T, p *Parser, src string) error {
	t.Helper()
	file, err := goparser.ParseFile(p.Fset, "src_test.go", src, goparser.ParseComments)
	require.NoError(t, err)
	if p.PkgName == "" {
		p.PkgName = file.Name.Name
		p.PkgPath = "example.com/app/" + file.Name.Name
	}
	return p.collectStructs(file, fileImports(file))
}

func TestCollectStructsMarker(t *testing.T) {
	p := New(Options{})
	err := scan(t, p, `package models

// User is an account holder.
//
//buildergen:builder
type User struct {
	Name string
	Age  uint32 `+"`builder:\"default=18\"`"+`
}

// unannotated stays out.
type Internal struct {
	ID int
}
`)
	require.NoError(t, err)
	require.Len(t, p.Structs, 1)

	ss := p.Structs[0]
	require.Equal(t, "User", ss.Name)
	require.Equal(t, "models", ss.PkgName)
	require.Len(t, ss.Fields, 2)
	require.Equal(t, "Name", ss.Fields[0].Name)
	require.Equal(t, "Age", ss.Fields[1].Name)
	require.Equal(t, "18", ss.Fields[1].Directive.DefaultExpr)
}

func TestCollectStructsExplicitTypes(t *testing.T) {
	p := New(Options{Types: []string{"Widget"}})
	err := scan(t, p, `package models

type Widget struct {
	ID int
}

type Gadget struct {
	ID int
}
`)
	require.NoError(t, err)
	require.Len(t, p.Structs, 1)
	require.Equal(t, "Widget", p.Structs[0].Name)
}

func TestCollectStructsSkipsGenerics(t *testing.T) {
	p := New(Options{Types: []string{"Box", "Plain"}})
	err := scan(t, p, `package models

type Box[T any] struct {
	Value T
}

type Plain struct {
	Value int
}
`)
	require.NoError(t, err)
	require.Len(t, p.Structs, 1)
	require.Equal(t, "Plain", p.Structs[0].Name)
}

func TestCollectStructsDirectiveError(t *testing.T) {
	p := New(Options{Types: []string{"User"}})
	err := scan(t, p, `package models

type User struct {
	Name string `+"`builder:\"sertter=WithName\"`"+`
}
`)
	require.ErrorIs(t, err, ErrUnknownDirectiveKey)
	require.ErrorContains(t, err, "struct User, field Name")
	require.ErrorContains(t, err, "src_test.go:4")
	require.Empty(t, p.Structs)
}

func TestCollectStructsFieldOrder(t *testing.T) {
	p := New(Options{Types: []string{"Ordered"}})
	err := scan(t, p, `package models

type Ordered struct {
	C string
	A string
	B, D int
}
`)
	require.NoError(t, err)
	require.Len(t, p.Structs, 1)

	var names []string
	for _, f := range p.Structs[0].Fields {
		names = append(names, f.Name)
	}
	require.Empty(t, cmp.Diff([]string{"C", "A", "B", "D"}, names))
}

func TestCollectStructsPerFileImports(t *testing.T) {
	p := New(Options{})
	require.NoError(t, scan(t, p, `package models

import "example.com/first/uuid"

//buildergen:builder
type A struct {
	ID uuid.UUID
}
`))
	require.NoError(t, scan(t, p, `package models

import "example.com/second/uuid"

//buildergen:builder
type B struct {
	ID uuid.UUID
}
`))
	require.Len(t, p.Structs, 2)

	// The same selector resolves through each declaring file's own imports.
	a, b := p.Structs[0], p.Structs[1]
	require.Empty(t, cmp.Diff(
		&model.TypeRef{PkgPath: "example.com/first/uuid", Name: "UUID"},
		p.resolveTypeRef(a.Imports, a.Fields[0].Type),
	))
	require.Empty(t, cmp.Diff(
		&model.TypeRef{PkgPath: "example.com/second/uuid", Name: "UUID"},
		p.resolveTypeRef(b.Imports, b.Fields[0].Type),
	))
}
