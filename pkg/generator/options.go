package generator

import (
	"path/filepath"
	"strings"
)

// Options control scanning and output placement.
//
// InDir is the package directory to scan and OutDir the directory for
// the generated file (defaults to InDir). When Types is empty, structs
// carrying the buildergen:builder doc marker are selected. Suffix names
// the generated builder types (default "Builder").
type Options struct {
	InDir   string   `json:"in_dir,omitempty" yaml:"in_dir,omitempty" toml:"in_dir,omitempty" mapstructure:"in_dir,omitempty"`
	OutDir  string   `json:"out_dir,omitempty" yaml:"out_dir,omitempty" toml:"out_dir,omitempty" mapstructure:"out_dir,omitempty"`
	OutFile string   `json:"out_file,omitempty" yaml:"out_file,omitempty" toml:"out_file,omitempty" mapstructure:"out_file,omitempty"`
	Types   []string `json:"types,omitempty" yaml:"types,omitempty" toml:"types,omitempty" mapstructure:"types,omitempty"`
	Suffix  string   `json:"suffix,omitempty" yaml:"suffix,omitempty" toml:"suffix,omitempty" mapstructure:"suffix,omitempty"`
}

func NewOptions() *Options {
	return &Options{
		InDir:   ".",
		OutFile: "builders_gen.go",
		Suffix:  "Builder",
	}
}

func (o *Options) Normalize() {
	if o.InDir == "" {
		o.InDir = "."
	}
	o.InDir, _ = filepath.Abs(o.InDir)
	if o.OutDir == "" {
		o.OutDir = o.InDir
	}
	o.OutDir, _ = filepath.Abs(o.OutDir)
	if o.OutFile == "" {
		o.OutFile = "builders_gen.go"
	}
	if o.Suffix == "" {
		o.Suffix = "Builder"
	}
}

// SamePackage reports whether output lands in the scanned package.
func (o *Options) SamePackage() bool {
	return o.InDir == o.OutDir
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInDir(d string) Option   { return func(o *Options) { o.InDir = d } }
func WithOutDir(d string) Option  { return func(o *Options) { o.OutDir = d } }
func WithOutFile(f string) Option { return func(o *Options) { o.OutFile = f } }
func WithSuffix(s string) Option  { return func(o *Options) { o.Suffix = s } }
func WithTypes(names ...string) Option {
	return func(o *Options) {
		for _, n := range names {
			o.Types = append(o.Types, strings.TrimSpace(n))
		}
	}
}
