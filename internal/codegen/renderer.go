package codegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fordtom/nvmbuilder/internal/analyzer"
)

// Renderer turns one layout plan into target-language source.
type Renderer interface {
	Render(plan analyzer.Plan) (string, error)
}

// RenderFunc adapts an ordinary function to Renderer.
type RenderFunc func(plan analyzer.Plan) (string, error)

func (f RenderFunc) Render(plan analyzer.Plan) (string, error) {
	return f(plan)
}

// FileRenderer also knows how to wrap several rendered plans into a complete
// output file (headers, guards, imports).
type FileRenderer interface {
	Renderer
	File(plans []analyzer.Plan) (string, error)
}

var errNoName = errors.New("plan has no record name")

// checkPlan rejects plans no renderer can emit.
func checkPlan(p analyzer.Plan) error {
	if p.Name == "" {
		return errNoName
	}
	if len(p.Fields) == 0 {
		return fmt.Errorf("%s: plan has no fields", p.Name)
	}
	return nil
}

// dimSuffix renders dims as "[10][2]".
func dimSuffix(dims []int) string {
	var b strings.Builder
	for _, d := range dims {
		fmt.Fprintf(&b, "[%d]", d)
	}
	return b.String()
}
