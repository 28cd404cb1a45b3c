package codegen

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/fordtom/nvmbuilder/internal/analyzer"
	"github.com/fordtom/nvmbuilder/internal/flatten"
	"github.com/fordtom/nvmbuilder/internal/schema"
)

func mustPlan(t *testing.T, s schema.Schema) analyzer.Plan {
	t.Helper()
	p, err := analyzer.Analyze(s, flatten.Options{})
	if err != nil {
		t.Fatalf("Analyze(%s) error: %v", s.Name, err)
	}
	return p
}

// sensorT has inter-field padding, trailing padding, a matrix, a collapsed
// array of structs and every width of scalar.
func sensorT() schema.Schema {
	return schema.New("sensor_t",
		schema.ScalarField("id", schema.U8),
		schema.ScalarField("serial", schema.U32),
		schema.ScalarField("offset", schema.I8),
		schema.ScalarField("uptime", schema.U64),
		schema.ScalarField("gain", schema.F64),
		schema.ArrayField("matrix", schema.Of(schema.I16), 3, 3),
		schema.ArrayField("points",
			schema.StructOf(
				schema.ScalarField("x", schema.F32),
				schema.ScalarField("y", schema.F32),
			), 4),
		schema.ArrayField("label", schema.Of(schema.U8), 5),
	)
}

func TestRenderFunc(t *testing.T) {
	var r Renderer = RenderFunc(func(p analyzer.Plan) (string, error) {
		return p.Name, nil
	})
	got, err := r.Render(analyzer.Plan{Name: "x"})
	if err != nil || got != "x" {
		t.Errorf("Render() = %q, %v", got, err)
	}
}

func TestRenderers_RejectUnnamedPlan(t *testing.T) {
	p := mustPlan(t, sensorT())
	p.Name = ""

	for name, r := range map[string]Renderer{"c": C{}, "go": Go{}, "json": JSON{}} {
		if _, err := r.Render(p); err == nil {
			t.Errorf("%s: Render() should fail for a plan without a name", name)
		}
	}
}

func TestRenderers_AreFileRenderers(t *testing.T) {
	for _, r := range []Renderer{C{}, Go{}, JSON{}} {
		if _, ok := r.(FileRenderer); !ok {
			t.Errorf("%T does not implement FileRenderer", r)
		}
	}
}

func TestGoName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"block_t", "BlockT"},
		{"block2_t", "Block2T"},
		{"device_info_serial", "DeviceInfoSerial"},
		{"structs_astruct_array", "StructsAstructArray"},
		{"items_0_id", "Items0Id"},
		{"A", "A"},
		{"", "X"},
	}
	for _, tt := range tests {
		if got := GoName(tt.in); got != tt.want {
			t.Errorf("GoName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGuardFor(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"blocks.h", "BLOCKS_H"},
		{"out/nvm-layout.h", "NVM_LAYOUT_H"},
		{`C:\inc\cfg.h`, "CFG_H"},
		{"1st.h", "_1ST_H"},
		{"", "LAYOUT_H"},
	}
	for _, tt := range tests {
		if got := GuardFor(tt.in); got != tt.want {
			t.Errorf("GuardFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// parseGo checks that src is a syntactically valid Go file.
func parseGo(t *testing.T, src string) {
	t.Helper()
	if _, err := parser.ParseFile(token.NewFileSet(), "gen.go", src, 0); err != nil {
		t.Fatalf("generated code does not parse: %v\n%s", err, src)
	}
}

func leaf(path []string, typ schema.ScalarType, dims ...int) flatten.LeafField {
	return flatten.LeafField{Path: path, Type: typ, Dims: dims}
}
