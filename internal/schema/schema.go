// Package schema defines the validator capability interface used by typed
// commands, the normalized type descriptor derived from it, and an adapter
// that implements the interface on top of CUE expressions.
//
// The rest of the codebase only sees Schema values; the concrete validation
// library stays behind this package boundary.
package schema

// Kind identifies the shape of the value a Schema accepts.
type Kind string

// Core kinds. A descriptor's base kind is always one of these.
const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBool    Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
	KindEnum    Kind = "enum"
	KindUnknown Kind = "unknown"
)

// Wrapper kinds. Schemas reporting these wrap another schema and mark the
// value optional; Analyze unwraps through them to find the core kind.
const (
	KindOptional Kind = "optional"
	KindNullable Kind = "nullable"
	KindDefault  Kind = "default"
)

// Schema is the opaque validator capability: it reports its kind and
// validates/coerces/defaults a raw value. Implementations may additionally
// satisfy Unwrapper and Describer.
//
// Parse accepts nil for "value not supplied" so that defaulting can apply;
// failures are reported as *ParseError.
type Schema interface {
	Kind() Kind
	Parse(raw any) (any, error)
}

// Unwrapper is implemented by wrapper schemas that expose their inner schema.
type Unwrapper interface {
	Unwrap() (Schema, bool)
}

// Describer is implemented by schemas that carry a human-readable description.
type Describer interface {
	Description() string
}

// TypeDescriptor is the normalized summary of a Schema, derived on demand by
// Analyze and never stored.
type TypeDescriptor struct {
	Base        Kind
	Optional    bool
	Description string
}

// maxUnwrapDepth bounds the Analyze unwrap loop so a self-referential
// wrapper chain degrades to KindUnknown instead of spinning.
const maxUnwrapDepth = 32

// Analyze inspects a Schema and reports its normalized descriptor: the first
// non-wrapper kind reached, whether any wrapper layer was seen, and the first
// description encountered. It never fails; unrecognized shapes degrade to
// KindUnknown. Pure function, no side effects.
func Analyze(s Schema) TypeDescriptor {
	var d TypeDescriptor
	d.Base = KindUnknown

	cur := s
	for depth := 0; cur != nil && depth < maxUnwrapDepth; depth++ {
		if d.Description == "" {
			if ds, ok := cur.(Describer); ok {
				d.Description = ds.Description()
			}
		}

		switch k := cur.Kind(); k {
		case KindOptional, KindNullable, KindDefault:
			d.Optional = true
			u, ok := cur.(Unwrapper)
			if !ok {
				return d
			}
			inner, ok := u.Unwrap()
			if !ok {
				return d
			}
			cur = inner
		default:
			d.Base = k
			return d
		}
	}

	return d
}
