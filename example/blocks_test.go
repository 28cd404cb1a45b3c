package example

import (
	"context"
	"strings"
	"testing"
	"unsafe"

	"github.com/fordtom/nvmbuilder/internal/analyzer"
	"github.com/fordtom/nvmbuilder/internal/codegen"
	"github.com/fordtom/nvmbuilder/internal/compile"
	"github.com/fordtom/nvmbuilder/internal/parser"
)

func compileBlocks(t *testing.T) map[string]analyzer.Plan {
	t.Helper()

	schemas, err := parser.ParseFile("blocks.go")
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}

	results := compile.CompileAll(context.Background(), schemas, compile.Options{})
	if err := compile.Err(results); err != nil {
		t.Fatalf("CompileAll() error: %v", err)
	}

	plans := make(map[string]analyzer.Plan)
	for _, p := range compile.Plans(results) {
		plans[p.Name] = p
	}
	return plans
}

func TestBlockSizes(t *testing.T) {
	plans := compileBlocks(t)

	tests := []struct {
		name     string
		size     int
		align    int
		padding  int
		capacity int
	}{
		{"block_t", 312, 4, 8, 0},
		{"block2_t", 76, 2, 0, 0},
		{"block3_t", 160, 8, 4, 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := plans[tt.name]
			if !ok {
				t.Fatalf("no plan for %s", tt.name)
			}
			st := p.Stats()
			if p.Size != tt.size || p.Align != tt.align || st.Padding != tt.padding || p.Capacity != tt.capacity {
				t.Errorf("size=%d align=%d padding=%d capacity=%d, want %d %d %d %d",
					p.Size, p.Align, st.Padding, p.Capacity, tt.size, tt.align, tt.padding, tt.capacity)
			}
			if err := p.Verify(); err != nil {
				t.Errorf("Verify() error: %v", err)
			}
		})
	}
}

func TestBlockOffsets(t *testing.T) {
	plans := compileBlocks(t)

	tests := []struct {
		block  string
		field  string
		offset int
		pad    int
	}{
		{"block_t", "some_struct_value3", 8, 0},
		{"block_t", "device_info_serial", 36, 2},
		{"block_t", "device_info_version_patch", 44, 0},
		{"block_t", "net_ip", 142, 0},
		{"block_t", "calibration_coefficients", 148, 2},
		{"block_t", "magic", 216, 2},
		{"block_t", "nested_complex_level1_level2_level3_array1d", 222, 0},
		{"block_t", "structs_astruct_array", 232, 2},
		{"block2_t", "another_struct_description", 44, 0},
		{"block3_t", "dlegal_notice", 28, 0},
	}

	for _, tt := range tests {
		f, ok := plans[tt.block].Lookup(tt.field)
		if !ok {
			t.Errorf("%s: no field %s", tt.block, tt.field)
			continue
		}
		if f.Offset != tt.offset || f.PaddingBefore != tt.pad {
			t.Errorf("%s.%s at %d (pad %d), want %d (pad %d)",
				tt.block, tt.field, f.Offset, f.PaddingBefore, tt.offset, tt.pad)
		}
	}
}

func TestArrayOfStructsCollapse(t *testing.T) {
	plans := compileBlocks(t)

	f, ok := plans["block_t"].Lookup("structs_astruct_array")
	if !ok {
		t.Fatal("structs_astruct_array missing")
	}
	if got := f.Leaf.Dims; len(got) != 2 || got[0] != 10 || got[1] != 2 {
		t.Errorf("Dims = %v, want [10 2]", got)
	}
	if got := strings.Join(f.Leaf.Columns, ","); got != "A,B" {
		t.Errorf("Columns = %s, want A,B", got)
	}
}

// Records without nested padding lay out identically in Go, so the
// compiler's size must match the plan. block_t does not qualify: Go pads
// some.struct to 20 bytes where the flat layout continues at 18.
func TestGoSizeAgrees(t *testing.T) {
	plans := compileBlocks(t)

	if got := int(unsafe.Sizeof(Block2{})); got != plans["block2_t"].Size {
		t.Errorf("unsafe.Sizeof(Block2{}) = %d, plan size %d", got, plans["block2_t"].Size)
	}
	if got := int(unsafe.Sizeof(Block3{})); got != plans["block3_t"].Size {
		t.Errorf("unsafe.Sizeof(Block3{}) = %d, plan size %d", got, plans["block3_t"].Size)
	}
}

func TestHeaderRendering(t *testing.T) {
	plans := compileBlocks(t)

	c := codegen.C{Guard: "BLOCKS_H", StaticAssert: true}
	out, err := c.File([]analyzer.Plan{plans["block_t"], plans["block2_t"], plans["block3_t"]})
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}

	for _, want := range []string{
		"#ifndef BLOCKS_H",
		"  int16_t calibration_matrix[3][3];",
		"  float structs_astruct_array[10][2];",
		"} block3_t;",
		`_Static_assert(sizeof(block2_t) == 76, "block2_t must be 76 bytes");`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q", want)
		}
	}
}
