package parser

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

const accountSrc = `package models

//buildergen:builder
type Account struct {
	Name     string   ` + "`builder:\"setter=WithName\"`" + `
	Nickname *string
	Age      uint32   ` + "`builder:\"default=18\"`" + `
	Roles    []string
	Secret   int      ` + "`builder:\"skip=42\"`" + `
}
`

func render(t *testing.T, p *Parser, pkgPath, pkgName string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, p.GenerateFile(pkgPath, pkgName).Render(&buf))
	return buf.String()
}

func TestGenerateBuilderMembers(t *testing.T) {
	p := New(Options{})
	require.NoError(t, scan(t, p, accountSrc))
	out := render(t, p, p.PkgPath, p.PkgName)

	require.Contains(t, out, "// Code generated by buildergen. DO NOT EDIT.")
	require.Contains(t, out, "package models")

	// Storage: one optional-wrapper slot per settable field, the slice
	// itself for the sequence, nothing for the skipped field.
	require.Contains(t, out, "type AccountBuilder struct {")
	require.Regexp(t, `name\s+\*string`, out)
	require.Regexp(t, `nickname\s+\*string`, out)
	require.Regexp(t, `age\s+\*uint32`, out)
	require.Regexp(t, `roles\s+\[\]string`, out)
	require.NotContains(t, out, "secret")

	// Constructor initializes the sequence slot empty.
	require.Contains(t, out, "func NewAccountBuilder() *AccountBuilder {")
	require.Contains(t, out, "roles: []string{}")

	// Setters.
	require.Contains(t, out, "func (b *AccountBuilder) WithName(value string) *AccountBuilder {")
	require.Contains(t, out, "func (b *AccountBuilder) Nickname(value string) *AccountBuilder {")
	require.Contains(t, out, "func (b *AccountBuilder) Age(value uint32) *AccountBuilder {")
	require.Contains(t, out, "func (b *AccountBuilder) AddRole(value string) *AccountBuilder {")
	require.Contains(t, out, "func (b *AccountBuilder) AddRoles(values ...string) *AccountBuilder {")
	require.Contains(t, out, "func (b *AccountBuilder) SetRoles(values []string) *AccountBuilder {")
	require.NotContains(t, out, "Secret(")

	// Assembly.
	require.Contains(t, out, "func (b *AccountBuilder) Build() (Account, error) {")
	require.Contains(t, out, `return Account{}, fmt.Errorf("field %q is missing", "Name")`)
	require.Contains(t, out, "out.Name = *b.name")
	require.Contains(t, out, "out.Nickname = b.nickname")
	require.Contains(t, out, "out.Age = 18")
	require.Contains(t, out, "out.Roles = b.roles")
	require.Contains(t, out, "out.Secret = 42")
	require.Contains(t, out, "return out, nil")
}

func TestGenerateCrossPackage(t *testing.T) {
	p := New(Options{})
	require.NoError(t, scan(t, p, accountSrc))
	out := render(t, p, "example.com/app/builders", "builders")

	require.Contains(t, out, "package builders")
	require.Contains(t, out, `"example.com/app/models"`)
	require.Contains(t, out, "models.Account")
}

func TestGenerateSuffixOverride(t *testing.T) {
	p := New(Options{Suffix: "Assembler"})
	require.NoError(t, scan(t, p, accountSrc))
	out := render(t, p, p.PkgPath, p.PkgName)

	require.Contains(t, out, "type AccountAssembler struct {")
	require.Contains(t, out, "func NewAccountAssembler() *AccountAssembler {")
	require.NotContains(t, out, "AccountBuilder")
}

func TestGenerateReplaceNamePrecedence(t *testing.T) {
	src := `package models

//buildergen:builder
type Bag struct {
	Items []int ` + "`builder:\"setter=Replace,setter_set=Install\"`" + `
}

//buildergen:builder
type Sack struct {
	Items []int ` + "`builder:\"setter=Replace\"`" + `
}
`
	p := New(Options{})
	require.NoError(t, scan(t, p, src))
	out := render(t, p, p.PkgPath, p.PkgName)

	// setter_set wins over setter for the replace method.
	require.Contains(t, out, "func (b *BagBuilder) Install(values []int) *BagBuilder {")
	require.NotContains(t, out, "func (b *BagBuilder) Replace(")

	// setter alone names the replace method.
	require.Contains(t, out, "func (b *SackBuilder) Replace(values []int) *SackBuilder {")
	require.NotContains(t, out, "func (b *SackBuilder) SetItems(")
}

func TestGenerateSkippedWithoutConstant(t *testing.T) {
	src := `package models

//buildergen:builder
type Conf struct {
	Name  string
	cache map[string]string ` + "`builder:\"skip\"`" + `
}
`
	p := New(Options{})
	require.NoError(t, scan(t, p, src))
	out := render(t, p, p.PkgPath, p.PkgName)

	require.NotContains(t, out, "cache")
	require.Contains(t, out, "out.Name = *b.name")
}

func TestGenerateSlotAvoidsMethodNames(t *testing.T) {
	src := `package models

//buildergen:builder
type Thing struct {
	age uint32
}
`
	p := New(Options{})
	require.NoError(t, scan(t, p, src))
	out := render(t, p, p.PkgPath, p.PkgName)

	// The default setter takes the field's own name; the slot steps aside.
	require.Contains(t, out, "func (b *ThingBuilder) age(value uint32) *ThingBuilder {")
	require.Regexp(t, `ageVal\s+\*uint32`, out)
	require.Contains(t, out, "b.ageVal = &value")
}

func TestGenerateOptionalWithDefault(t *testing.T) {
	src := `package models

//buildergen:builder
type Prefs struct {
	Theme *string ` + "`builder:\"default=defaultTheme\"`" + `
}
`
	p := New(Options{})
	require.NoError(t, scan(t, p, src))
	out := render(t, p, p.PkgPath, p.PkgName)

	// Explicit default wins over the pointer's absent state.
	require.Contains(t, out, "if b.theme != nil {")
	require.Contains(t, out, "out.Theme = defaultTheme")
	require.NotContains(t, out, `"Theme" is missing`)
}

func TestGenerateCarriesStructDoc(t *testing.T) {
	src := `package models

// Widget is a configurable UI element.
//buildergen:builder
type Widget struct {
	Name string
}
`
	p := New(Options{})
	require.NoError(t, scan(t, p, src))
	out := render(t, p, p.PkgPath, p.PkgName)

	require.Contains(t, out, "// Widget is a configurable UI element.")
	require.NotContains(t, out, "buildergen:builder")
}

func TestGenerateCarriesFieldDoc(t *testing.T) {
	src := `package models

//buildergen:builder
type Widget struct {
	// Name is shown in the sidebar.
	Name string
}
`
	p := New(Options{})
	require.NoError(t, scan(t, p, src))
	out := render(t, p, p.PkgPath, p.PkgName)

	require.Contains(t, out, "// Name sets Name.")
	require.Contains(t, out, "// Name is shown in the sidebar.")
}
