package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeSchema is a hand-built schema for exercising the analyzer without
// going through the CUE adapter.
type fakeSchema struct {
	kind  Kind
	inner Schema
	desc  string
}

func (f *fakeSchema) Kind() Kind                { return f.kind }
func (f *fakeSchema) Parse(raw any) (any, error) { return raw, nil }

func (f *fakeSchema) Unwrap() (Schema, bool) {
	if f.inner == nil {
		return nil, false
	}
	return f.inner, true
}

func (f *fakeSchema) Description() string { return f.desc }

// bareWrapper reports a wrapper kind but offers no way to unwrap.
type bareWrapper struct{}

func (bareWrapper) Kind() Kind                 { return KindOptional }
func (bareWrapper) Parse(raw any) (any, error) { return raw, nil }

func TestAnalyze_CoreKinds(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{"string", KindString},
		{"number", KindNumber},
		{"boolean", KindBool},
		{"array", KindArray},
		{"object", KindObject},
		{"enum", KindEnum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Analyze(&fakeSchema{kind: tt.kind})

			assert.Equal(t, tt.kind, d.Base)
			assert.False(t, d.Optional)
		})
	}
}

func TestAnalyze_UnwrapsWrapperChain(t *testing.T) {
	s := &fakeSchema{
		kind: KindOptional,
		inner: &fakeSchema{
			kind:  KindNullable,
			inner: &fakeSchema{kind: KindString},
		},
	}

	d := Analyze(s)

	assert.Equal(t, KindString, d.Base)
	assert.True(t, d.Optional, "any wrapper layer marks the value optional")
}

func TestAnalyze_DefaultWrapperMarksOptional(t *testing.T) {
	s := &fakeSchema{
		kind:  KindDefault,
		inner: &fakeSchema{kind: KindNumber},
	}

	d := Analyze(s)

	assert.Equal(t, KindNumber, d.Base)
	assert.True(t, d.Optional)
}

func TestAnalyze_FirstDescriptionWins(t *testing.T) {
	s := &fakeSchema{
		kind:  KindOptional,
		desc:  "outer description",
		inner: &fakeSchema{kind: KindString, desc: "inner description"},
	}

	d := Analyze(s)

	assert.Equal(t, "outer description", d.Description)
}

func TestAnalyze_InnerDescriptionWhenOuterEmpty(t *testing.T) {
	s := &fakeSchema{
		kind:  KindOptional,
		inner: &fakeSchema{kind: KindString, desc: "inner description"},
	}

	d := Analyze(s)

	assert.Equal(t, "inner description", d.Description)
}

func TestAnalyze_WrapperWithoutUnwrap(t *testing.T) {
	d := Analyze(bareWrapper{})

	assert.Equal(t, KindUnknown, d.Base)
	assert.True(t, d.Optional)
}

func TestAnalyze_WrapperUnwrapsToNothing(t *testing.T) {
	d := Analyze(&fakeSchema{kind: KindNullable, inner: nil})

	assert.Equal(t, KindUnknown, d.Base)
	assert.True(t, d.Optional)
}

func TestAnalyze_NilSchema(t *testing.T) {
	d := Analyze(nil)

	assert.Equal(t, KindUnknown, d.Base)
	assert.False(t, d.Optional)
}

func TestAnalyze_SelfReferentialChainTerminates(t *testing.T) {
	loop := &fakeSchema{kind: KindOptional}
	loop.inner = loop

	d := Analyze(loop)

	assert.Equal(t, KindUnknown, d.Base)
	assert.True(t, d.Optional)
}

func TestAnalyze_IsPure(t *testing.T) {
	s := &fakeSchema{
		kind:  KindOptional,
		inner: &fakeSchema{kind: KindBool},
	}

	first := Analyze(s)
	second := Analyze(s)

	assert.Equal(t, first, second)
}
