package schema

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/cfgen-dev/cfgen/internal/errors"
)

// Compile turns a CUE expression into a Schema. The expression is the
// validator a config author writes for an option or argument, for example:
//
//	string
//	int & >=1
//	bool
//	[...string]
//	"dev" | "staging" | "prod"
//	*"dev" | "staging" | "prod"   (defaulted, therefore optional)
//	null | string                 (nullable, therefore optional)
func Compile(expr string) (Schema, error) {
	return CompileWithDescription(expr, "")
}

// CompileWithDescription compiles a CUE expression and attaches a
// human-readable description reported through the Describer capability.
func CompileWithDescription(expr, desc string) (Schema, error) {
	ctx := cuecontext.New()

	v := ctx.CompileString(expr)
	if err := v.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrSchema,
			fmt.Sprintf("Invalid type expression: %s", expr),
			"Use a CUE expression like string, int, bool, [...string], or \"a\" | \"b\"")
	}

	core := &cueSchema{ctx: ctx, val: v, desc: desc}
	core.base = detectBase(v)

	ik := v.IncompleteKind()
	core.nullable = ik&cue.NullKind != 0 && ik != cue.NullKind
	_, core.hasDefault = v.Default()

	// Wrap the core so the analyzer sees the optionality layers the
	// expression declares, outermost default first.
	var s Schema = core
	if core.nullable {
		s = &wrapSchema{kind: KindNullable, inner: s, core: core}
	}
	if core.hasDefault {
		s = &wrapSchema{kind: KindDefault, inner: s, core: core}
	}
	return s, nil
}

// cueSchema is the terminal schema around a compiled CUE value.
type cueSchema struct {
	ctx        *cue.Context
	val        cue.Value
	base       Kind
	desc       string
	nullable   bool
	hasDefault bool
}

func (s *cueSchema) Kind() Kind { return s.base }

func (s *cueSchema) Description() string { return s.desc }

func (s *cueSchema) Parse(raw any) (any, error) { return s.parse(raw) }

// wrapSchema layers a wrapper kind (default/nullable) over the core schema.
// Parsing always delegates to the core, which knows how to apply defaults
// and accept null; the wrapper only exists for introspection.
type wrapSchema struct {
	kind  Kind
	inner Schema
	core  *cueSchema
}

func (w *wrapSchema) Kind() Kind              { return w.kind }
func (w *wrapSchema) Unwrap() (Schema, bool)  { return w.inner, true }
func (w *wrapSchema) Description() string     { return w.core.desc }
func (w *wrapSchema) Parse(raw any) (any, error) { return w.core.parse(raw) }

// detectBase maps a CUE value to the core kind reported to the analyzer.
// A disjunction of concrete values is an enum; otherwise the incomplete
// kind (minus the null bit) decides.
func detectBase(v cue.Value) Kind {
	if op, args := v.Expr(); op == cue.OrOp && len(args) > 0 {
		allConcrete := true
		for _, a := range args {
			if !a.IsConcrete() {
				allConcrete = false
				break
			}
		}
		if allConcrete {
			return KindEnum
		}
	}

	switch ik := v.IncompleteKind() &^ cue.NullKind; {
	case ik == cue.StringKind:
		return KindString
	case ik == cue.BoolKind:
		return KindBool
	case ik != 0 && ik&cue.NumberKind == ik:
		return KindNumber
	case ik == cue.ListKind:
		return KindArray
	case ik == cue.StructKind:
		return KindObject
	default:
		return KindUnknown
	}
}

func (s *cueSchema) parse(raw any) (any, error) {
	if raw == nil {
		if s.hasDefault {
			if def, ok := s.val.Default(); ok {
				var out any
				if err := def.Decode(&out); err == nil {
					return out, nil
				}
			}
		}
		if s.nullable {
			return nil, nil
		}
		return nil, &ParseError{Issues: []Issue{{
			Message: "required value is missing",
			Code:    IssueMissing,
		}}}
	}

	// CLI input arrives as text, so try the raw value first and fall back
	// to literal-coerced variants (3, 2.5, true) when the raw form does
	// not satisfy the schema.
	var firstErr error
	for _, cand := range candidates(raw) {
		enc := s.ctx.Encode(cand)
		if enc.Err() != nil {
			continue
		}

		unified := s.val.Unify(enc)
		if err := unified.Validate(cue.Concrete(true)); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		var out any
		if err := unified.Decode(&out); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return out, nil
	}

	return nil, &ParseError{Issues: []Issue{{
		Message: parseMessage(raw, firstErr),
		Code:    classify(raw, s.base),
	}}}
}

// candidates returns the encodings to try for a raw value, most literal first.
func candidates(raw any) []any {
	cands := []any{raw}

	switch v := raw.(type) {
	case string:
		if c, ok := coerceLiteral(v); ok {
			cands = append(cands, c)
		}
	case []string:
		coerced := make([]any, len(v))
		changed := false
		for i, item := range v {
			if c, ok := coerceLiteral(item); ok {
				coerced[i] = c
				changed = true
			} else {
				coerced[i] = item
			}
		}
		if changed {
			cands = append(cands, coerced)
		}
	}

	return cands
}

// coerceLiteral interprets a string as a number or boolean literal.
func coerceLiteral(s string) (any, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b, true
	}
	return nil, false
}

// classify decides whether a failed parse is a wrong-kind error or some
// other constraint violation. A string that reads as a matching literal
// counts as the literal's kind, since CLI input is always text.
func classify(raw any, base Kind) IssueCode {
	kinds := effectiveKinds(raw)

	switch base {
	case KindEnum:
		// Any scalar can be an enum candidate; only containers are the
		// wrong kind outright.
		if kinds[KindArray] || kinds[KindObject] {
			return IssueType
		}
		return IssueInvalid
	case KindUnknown:
		return IssueInvalid
	default:
		if kinds[base] {
			return IssueInvalid
		}
		return IssueType
	}
}

// effectiveKinds reports the kinds a raw Go value could represent.
func effectiveKinds(raw any) map[Kind]bool {
	kinds := map[Kind]bool{}
	switch v := raw.(type) {
	case string:
		kinds[KindString] = true
		if c, ok := coerceLiteral(v); ok {
			switch c.(type) {
			case int64, float64:
				kinds[KindNumber] = true
			case bool:
				kinds[KindBool] = true
			}
		}
	case bool:
		kinds[KindBool] = true
	case int, int32, int64, float32, float64:
		kinds[KindNumber] = true
	case []string, []any:
		kinds[KindArray] = true
	case map[string]any, map[string]string:
		kinds[KindObject] = true
	default:
		kinds[KindUnknown] = true
	}
	return kinds
}

// parseMessage extracts a one-line message from a CUE validation error.
func parseMessage(raw any, err error) string {
	if err == nil {
		return fmt.Sprintf("value %v is not allowed", raw)
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
