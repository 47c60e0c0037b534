package model

// Classification is the generation strategy selected for a field. It is
// derived from the field's declared type shape and its Directive; it is
// never stored on the field.
type Classification int

const (
	Required  Classification = iota
	Optional                 // declared type is *T
	Defaulted                // has a default expression, not skipped
	Sequence                 // declared type is []T
	Skipped                  // builder:"skip"; no slot, no setters
)

func (c Classification) String() string {
	switch c {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Defaulted:
		return "defaulted"
	case Sequence:
		return "sequence"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}
