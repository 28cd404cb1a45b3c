package schema

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		schema  Schema
		wantErr error
		wantAt  string
	}{
		{
			name: "valid nested",
			schema: New("block_t",
				ScalarField("magic", U32),
				StructField("device", ScalarField("serial", U32)),
				ArrayField("name", Of(U8), 16),
			),
		},
		{
			name:    "empty schema",
			schema:  New("empty_t"),
			wantErr: ErrEmptySchema,
		},
		{
			name:    "invalid segment",
			schema:  New("t", ScalarField("1abc", U8)),
			wantErr: ErrInvalidName,
			wantAt:  "1abc",
		},
		{
			name:    "leading underscore",
			schema:  New("t", ScalarField("_pad0", U8)),
			wantErr: ErrInvalidName,
		},
		{
			name: "duplicate sibling",
			schema: New("t",
				StructField("a", ScalarField("x", U8), ScalarField("x", U16)),
			),
			wantErr: ErrDuplicateIdentifier,
			wantAt:  "a.x",
		},
		{
			name:    "zero dimension",
			schema:  New("t", ArrayField("arr", Of(U16), 0)),
			wantErr: ErrInvalidDimension,
			wantAt:  "arr",
		},
		{
			name:    "negative dimension",
			schema:  New("t", ArrayField("arr", Of(U16), 3, -1)),
			wantErr: ErrInvalidDimension,
		},
		{
			name:    "no dimensions",
			schema:  New("t", ArrayField("arr", Of(U16))),
			wantErr: ErrInvalidDimension,
		},
		{
			name:    "empty nested struct",
			schema:  New("t", StructField("s")),
			wantErr: ErrEmptyStruct,
			wantAt:  "s",
		},
		{
			name:    "invalid scalar",
			schema:  New("t", ScalarField("x", ScalarType(42))),
			wantErr: ErrUnsupportedType,
		},
		{
			name:    "nil kind",
			schema:  New("t", Field("x", nil)),
			wantErr: ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}

			var se *Error
			if !errors.As(err, &se) {
				t.Fatalf("error %T is not *Error", err)
			}
			if se.Schema != tt.schema.Name {
				t.Errorf("Schema = %q, want %q", se.Schema, tt.schema.Name)
			}
			if tt.wantAt != "" && strings.Join(se.Path, ".") != tt.wantAt {
				t.Errorf("Path = %v, want %s", se.Path, tt.wantAt)
			}
		})
	}
}

func TestConstructorsCopy(t *testing.T) {
	dims := []int{3, 3}
	a := ArrayOf(Of(I16), dims...)
	dims[0] = 99
	if a.Dims[0] != 3 {
		t.Errorf("ArrayOf shares dims with caller: %v", a.Dims)
	}

	fields := []FieldSpec{ScalarField("a", U8)}
	s := New("t", fields...)
	fields[0].Name = "changed"
	if s.Fields[0].Name != "a" {
		t.Errorf("New shares fields with caller: %v", s.Fields)
	}
}

func TestValidSegment(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"serial", true},
		{"Net_IP2", true},
		{"A", true},
		{"", false},
		{"_pad", false},
		{"2nd", false},
		{"has-dash", false},
		{"a.b", false},
	}
	for _, tt := range tests {
		if got := ValidSegment(tt.in); got != tt.want {
			t.Errorf("ValidSegment(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
