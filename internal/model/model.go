package model

import (
	"go/ast"
	"go/token"
)

// Directive is the parsed configuration for one field, built from the
// entries of its `builder:"..."` struct tag.
type Directive struct {
	SetterName   string // override for the primary setter (setter=)
	DefaultExpr  string // expression text used when the field was never set
	HasDefault   bool   // DefaultExpr was given explicitly (default= or skip=)
	Skip         bool   // no setter; DefaultExpr (or the zero value) is used unconditionally
	PushName     string // override for the push-one setter (setter_push=)
	PushManyName string // override for the push-many setter (setter_push_many=)
	SetName      string // override for the replace setter (setter_set=)
}

// FieldSpec is one struct field as seen by the generator. Order within
// StructSpec.Fields is the declaration order and drives both generated
// method ordering and Build's missing-field iteration.
type FieldSpec struct {
	Name      string
	Type      ast.Expr // declared type expression
	Pos       token.Position
	Comment   string
	Directive Directive
}

// StructSpec is one annotated struct definition captured from source.
// Imports is the alias to import path table of the declaring file; field
// selector types resolve against it, never against another file's imports.
type StructSpec struct {
	Name    string
	PkgName string
	PkgPath string
	Comment string
	Pos     token.Position
	Fields  []*FieldSpec
	Imports map[string]string
}

type TypeRef struct {
	PkgPath string // "" for builtins and same-package types
	Name    string // "string", "UUID", or raw expression text for opaque shapes
	IsPtr   bool
	IsSlice bool
	Elem    *TypeRef // for Ptr or Slice
}
