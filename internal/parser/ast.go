package parser

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strconv"

	"github.com/fordtom/nvmbuilder/internal/schema"
)

// ParseFile parses a Go source file and extracts types with @layout annotations
func ParseFile(filename string) ([]schema.Schema, error) {
	return ParseSource(filename, nil)
}

// ParseSource is ParseFile for source held in memory; src is anything
// go/parser accepts (string, []byte, io.Reader) or nil to read filename.
//
// Every annotated struct becomes one schema, in declaration order. A type
// that cannot be converted does not stop the others: the schemas that did
// convert are returned together with the joined errors.
func ParseSource(filename string, src any) ([]schema.Schema, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return extractSchemas(fset, file)
}

func extractSchemas(fset *token.FileSet, file *ast.File) ([]schema.Schema, error) {
	res := newResolver(fset, file)

	var (
		schemas []schema.Schema
		errs    []error
	)

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec := spec.(*ast.TypeSpec)

			// @layout lives on the spec in a grouped declaration, on the decl otherwise
			doc := typeSpec.Doc
			if doc == nil && len(genDecl.Specs) == 1 {
				doc = genDecl.Doc
			}
			anno, found, err := extractAnnotation(doc)
			if !found {
				continue
			}
			name := typeSpec.Name.Name
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %s: %w", fset.Position(typeSpec.Pos()), name, err))
				continue
			}

			s, err := res.schemaFor(typeSpec, anno)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			schemas = append(schemas, s)
		}
	}

	return schemas, errors.Join(errs...)
}

func extractAnnotation(doc *ast.CommentGroup) (*TypeAnnotation, bool, error) {
	if doc == nil {
		return nil, false, nil
	}

	// Extract comment text lines
	var lines []string
	for _, comment := range doc.List {
		lines = append(lines, CleanComment(comment.Text))
	}

	return FindAnnotation(lines)
}

// fieldTag returns the parsed layout tag of field, or nil if it has none.
func fieldTag(field *ast.Field) (*FieldTag, error) {
	if field.Tag == nil {
		return nil, nil
	}

	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return nil, fmt.Errorf("malformed struct tag %s", field.Tag.Value)
	}
	value, ok := reflect.StructTag(raw).Lookup("layout")
	if !ok {
		return nil, nil
	}
	return ParseTag(value)
}
