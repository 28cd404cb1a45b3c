package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fordtom/nvmbuilder/internal/schema"
)

// TypeAnnotation holds parsed @layout annotation
type TypeAnnotation struct {
	Name   string        // record name; empty means derive from the Go type name
	Size   int           // capacity in bytes (0 = unbounded)
	Endian schema.Endian // byte order for marshal code
}

var (
	annotationRe = regexp.MustCompile(`^@layout(?:\s+(.+))?$`)
	pairRe       = regexp.MustCompile(`(\w+)=([\w-]+)`)
)

// ParseAnnotation parses @layout annotation from comment text
//
// Expected format:
//
//	// @layout
//	// @layout name=block_t
//	// @layout name=block3_t size=256
//	// @layout size=4096 endian=big
//
// Params are space-separated key=value pairs. Size is an optional upper bound
// on the computed record size.
func ParseAnnotation(comment string) (*TypeAnnotation, error) {
	matches := annotationRe.FindStringSubmatch(strings.TrimSpace(comment))
	if matches == nil {
		return nil, fmt.Errorf("no @layout annotation found")
	}

	anno := &TypeAnnotation{Endian: schema.LittleEndian}
	if matches[1] == "" {
		return anno, nil
	}
	if err := parseLayoutParams(anno, matches[1]); err != nil {
		return nil, err
	}
	return anno, nil
}

func parseLayoutParams(anno *TypeAnnotation, params string) error {
	// Everything after @layout must be key=value pairs
	if rest := strings.TrimSpace(pairRe.ReplaceAllString(params, "")); rest != "" {
		return fmt.Errorf("malformed @layout parameters: %q", rest)
	}

	for _, pair := range pairRe.FindAllStringSubmatch(params, -1) {
		key := pair[1]
		value := pair[2]

		switch key {
		case "name":
			if !schema.ValidSegment(value) {
				return fmt.Errorf("invalid record name: %s", value)
			}
			anno.Name = value

		case "size":
			size, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid size: %s", value)
			}
			if size <= 0 {
				return fmt.Errorf("size must be positive, got: %d", size)
			}
			anno.Size = size

		case "endian":
			endian, err := schema.ParseEndian(value)
			if err != nil {
				return err
			}
			anno.Endian = endian

		default:
			return fmt.Errorf("unknown parameter: %s", key)
		}
	}

	return nil
}

// FindAnnotation searches comment lines for @layout annotation.
// Returns the annotation and true if found; a malformed annotation is
// returned as an error.
func FindAnnotation(comments []string) (*TypeAnnotation, bool, error) {
	for _, comment := range comments {
		if !strings.HasPrefix(comment, "@layout") {
			continue
		}
		anno, err := ParseAnnotation(comment)
		if err != nil {
			return nil, true, err
		}
		return anno, true, nil
	}
	return nil, false, nil
}

// CleanComment removes comment markers from a line
// "// @layout size=4096" → "@layout size=4096"
// "/* @layout size=4096 */" → "@layout size=4096"
func CleanComment(line string) string {
	line = strings.TrimSpace(line)

	// Remove // prefix
	if strings.HasPrefix(line, "//") {
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimSpace(line)
		return line
	}

	// Remove /* */ wrapper
	if strings.HasPrefix(line, "/*") && strings.HasSuffix(line, "*/") {
		line = strings.TrimPrefix(line, "/*")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(line)
		return line
	}

	return line
}
