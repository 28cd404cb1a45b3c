package codegen

import (
	"encoding/json"
	"fmt"

	"github.com/fordtom/nvmbuilder/internal/analyzer"
)

// JSON renders plans as a machine-readable layout dump.
type JSON struct {
	Indent string // defaults to two spaces
}

type jsonField struct {
	Path          []string `json:"path"`
	Identifier    string   `json:"identifier"`
	Type          string   `json:"type"`
	Dims          []int    `json:"dims,omitempty"`
	Columns       []string `json:"columns,omitempty"`
	Offset        int      `json:"offset"`
	Size          int      `json:"size"`
	PaddingBefore int      `json:"padding_before"`
}

type jsonStats struct {
	Used       int     `json:"used"`
	Padding    int     `json:"padding"`
	Efficiency float64 `json:"efficiency"`
}

type jsonPlan struct {
	Name            string      `json:"name"`
	Size            int         `json:"size"`
	Align           int         `json:"align"`
	Endian          string      `json:"endian"`
	Capacity        int         `json:"capacity,omitempty"`
	Fields          []jsonField `json:"fields"`
	TrailingPadding int         `json:"trailing_padding"`
	Stats           jsonStats   `json:"stats"`
}

func toJSONPlan(p analyzer.Plan) jsonPlan {
	st := p.Stats()
	out := jsonPlan{
		Name:            p.Name,
		Size:            p.Size,
		Align:           p.Align,
		Endian:          p.Endian.String(),
		Capacity:        p.Capacity,
		Fields:          make([]jsonField, len(p.Fields)),
		TrailingPadding: p.TrailingPadding(),
		Stats: jsonStats{
			Used:       st.Used,
			Padding:    st.Padding,
			Efficiency: st.Efficiency,
		},
	}
	for i, f := range p.Fields {
		out.Fields[i] = jsonField{
			Path:          f.Leaf.Path,
			Identifier:    f.Leaf.Identifier(),
			Type:          f.Leaf.Type.String(),
			Dims:          f.Leaf.Dims,
			Columns:       f.Leaf.Columns,
			Offset:        f.Offset,
			Size:          f.Size(),
			PaddingBefore: f.PaddingBefore,
		}
	}
	return out
}

func (j JSON) indent() string {
	if j.Indent == "" {
		return "  "
	}
	return j.Indent
}

// Render emits one plan as a JSON object.
func (j JSON) Render(p analyzer.Plan) (string, error) {
	if err := checkPlan(p); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(toJSONPlan(p), "", j.indent())
	if err != nil {
		return "", fmt.Errorf("%s: encode layout: %w", p.Name, err)
	}
	return string(data) + "\n", nil
}

// File emits every plan as one JSON array.
func (j JSON) File(plans []analyzer.Plan) (string, error) {
	out := make([]jsonPlan, 0, len(plans))
	for _, p := range plans {
		if err := checkPlan(p); err != nil {
			return "", err
		}
		out = append(out, toJSONPlan(p))
	}
	data, err := json.MarshalIndent(out, "", j.indent())
	if err != nil {
		return "", fmt.Errorf("encode layouts: %w", err)
	}
	return string(data) + "\n", nil
}
