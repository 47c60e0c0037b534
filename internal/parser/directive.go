package parser

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/structgen/buildergen/internal/model"
)

// TagKey is the struct tag key holding builder directives.
const TagKey = "builder"

var (
	ErrUnknownDirectiveKey   = errors.New("unknown directive key")
	ErrInvalidSetterName     = errors.New("invalid setter name")
	ErrDuplicateDirective    = errors.New("duplicate directive")
	ErrMissingDirectiveValue = errors.New("directive requires a value")
)

// ParseDirective converts the value of a `builder:"..."` tag into a
// Directive. Entries are comma-separated `key` or `key=value` pairs and
// are processed in declaration order; a repeated single-valued key is an
// error rather than a silent overwrite.
func ParseDirective(tag string) (model.Directive, error) {
	var (
		d    model.Directive
		seen = map[string]bool{}
	)

	for _, entry := range splitEntries(tag) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		key, val, hasVal := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)

		switch key {
		case "setter", "setter_push", "setter_push_many", "setter_set":
			if seen[key] {
				return d, fmt.Errorf("%w: %q", ErrDuplicateDirective, key)
			}
			seen[key] = true
			if !hasVal || !token.IsIdentifier(strings.TrimSpace(val)) {
				return d, fmt.Errorf("%w: %q", ErrInvalidSetterName, key)
			}
			val = strings.TrimSpace(val)
			switch key {
			case "setter":
				d.SetterName = val
			case "setter_push":
				d.PushName = val
			case "setter_push_many":
				d.PushManyName = val
			case "setter_set":
				d.SetName = val
			}

		case "skip":
			if seen[key] {
				return d, fmt.Errorf("%w: %q", ErrDuplicateDirective, key)
			}
			seen[key] = true
			d.Skip = true
			if hasVal {
				// skip's payload is the field's constant value; it shares
				// the default-expression slot.
				if d.HasDefault {
					return d, fmt.Errorf("%w: %q", ErrDuplicateDirective, "default")
				}
				d.DefaultExpr = strings.TrimSpace(val)
				d.HasDefault = true
			}

		case "default":
			if !hasVal || strings.TrimSpace(val) == "" {
				return d, fmt.Errorf("%w: %q", ErrMissingDirectiveValue, key)
			}
			if d.HasDefault {
				return d, fmt.Errorf("%w: %q", ErrDuplicateDirective, "default")
			}
			d.DefaultExpr = strings.TrimSpace(val)
			d.HasDefault = true

		default:
			return d, fmt.Errorf("%w: %q", ErrUnknownDirectiveKey, key)
		}
	}

	return d, nil
}

// splitEntries splits a tag value on top-level commas only, so that
// expression payloads like `default=[]string{"a","b"}` or
// `default=pick(1, 2)` survive as a single entry.
func splitEntries(s string) []string {
	var (
		out   []string
		depth int
		quote rune
		start int
	)

	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote && (i == 0 || s[i-1] != '\\') {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		case r == ',' && depth == 0:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])

	return out
}
