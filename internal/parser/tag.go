package parser

import (
	"fmt"
	"strings"

	"github.com/fordtom/nvmbuilder/internal/schema"
)

// FieldTag is a parsed `layout:"..."` struct tag.
type FieldTag struct {
	Name string // path segment override; empty keeps the derived name
	Skip bool   // "-" excludes the field from the record
}

// ParseTag parses layout struct tags
//
// Semantics:
//   - "-"     : field is not part of the record
//   - "name"  : use name as the path segment instead of the snake_case Go name
//
// Examples:
//
//	"-"             → skipped
//	"dlegal_notice" → segment dlegal_notice
//	"astruct_array" → segment astruct_array
func ParseTag(tag string) (*FieldTag, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("empty layout tag")
	}

	if tag == "-" {
		return &FieldTag{Skip: true}, nil
	}

	if strings.Contains(tag, ",") {
		return nil, fmt.Errorf("unknown layout tag options: %s", tag)
	}
	if !schema.ValidSegment(tag) {
		return nil, fmt.Errorf("invalid segment name: %s", tag)
	}
	return &FieldTag{Name: tag}, nil
}

// SnakeCase converts a Go identifier to the snake_case segment used when a
// field has no tag: "BootCount" → "boot_count", "NetIP" → "net_ip",
// "Array1D" → "array1d".
func SnakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if isUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && isLower(runes[i+1])
				if isLower(prev) || (isUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
