// Package layout compiles JSON layout documents into typed column trees and
// classifies every fillable field path by the shape of value it accepts.
package layout

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/polarsignals/pqwriter/errs"
	"github.com/polarsignals/pqwriter/value"
)

const (
	keyFields   = "fields"
	keyName     = "name"
	keyType     = "type"
	keyContains = "contains"

	typeStruct = "struct"
)

var listDepths = map[string]int{
	"list1d": 1,
	"list2d": 2,
	"list3d": 3,
}

// Decode parses JSON into a generic document. Numbers are kept as
// json.Number so integer values survive without loss.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return doc, nil
}

// Parse compiles a JSON layout document.
func Parse(data []byte) (*Schema, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, &errs.Error{Kind: errs.KindSchema, Msg: "invalid layout document", Err: err}
	}
	return Compile(doc)
}

func ParseReader(r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return Parse(data)
}

func ParseFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}
	return Parse(data)
}

// Compile turns a generic layout document into a Schema. Every structural
// problem, including nesting that the fill classifier cannot accept, is
// reported here as a schema error.
func Compile(doc any) (*Schema, error) {
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, errs.Schemaf("", "layout must be a JSON object, got %T", doc)
	}
	fields, err := compileFields("", root)
	if err != nil {
		return nil, err
	}
	return newSchema(fields)
}

func compileFields(parent string, node map[string]any) ([]Field, error) {
	raw, ok := node[keyFields]
	if !ok {
		return nil, errs.Schemaf(parent, `missing "fields" node`)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errs.Schemaf(parent, `"fields" must be an array, got %T`, raw)
	}
	if len(list) == 0 {
		return nil, errs.Schemaf(parent, `"fields" is empty`)
	}

	fields := make([]Field, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for i, item := range list {
		def, ok := item.(map[string]any)
		if !ok {
			return nil, errs.Schemaf(parent, "field %d must be an object, got %T", i, item)
		}
		name, err := fieldName(parent, i, def)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, errs.Schemaf(join(parent, name), "duplicate field name")
		}
		seen[name] = struct{}{}

		t, err := compileType(join(parent, name), def)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Name: name, Type: t})
	}
	return fields, nil
}

func fieldName(parent string, i int, def map[string]any) (string, error) {
	raw, ok := def[keyName]
	if !ok {
		return "", errs.Schemaf(parent, `field %d is missing "name"`, i)
	}
	name, ok := raw.(string)
	if !ok || name == "" {
		return "", errs.Schemaf(parent, "field %d has an invalid name %v", i, raw)
	}
	if strings.Contains(name, ".") {
		return "", errs.Schemaf(join(parent, name), `field names must not contain "."`)
	}
	return name, nil
}

func compileType(path string, def map[string]any) (ColumnType, error) {
	raw, ok := def[keyType]
	if !ok {
		return nil, errs.Schemaf(path, `missing "type"`)
	}
	token, ok := raw.(string)
	if !ok {
		return nil, errs.Schemaf(path, `"type" must be a string, got %T`, raw)
	}

	if depth, ok := listDepths[token]; ok {
		rawElem, ok := def[keyContains]
		if !ok {
			return nil, errs.Schemaf(path, `%s is missing "contains"`, token)
		}
		elemSpec, ok := rawElem.(map[string]any)
		if !ok {
			return nil, errs.Schemaf(path, `"contains" must be an object, got %T`, rawElem)
		}
		if _, ok := elemSpec[keyType]; !ok {
			return nil, errs.Schemaf(path, `"contains" is missing "type"`)
		}
		elem, err := compileType(path, elemSpec)
		if err != nil {
			return nil, err
		}
		if inner, ok := elem.(List); ok {
			return List{Depth: depth + inner.Depth, Elem: inner.Elem}, nil
		}
		return List{Depth: depth, Elem: elem}, nil
	}

	if token == typeStruct {
		fields, err := compileFields(path, def)
		if err != nil {
			return nil, err
		}
		return Struct{Fields: fields}, nil
	}

	kind, ok := value.ParseKind(token)
	if !ok {
		return nil, errs.Schemaf(path, "unknown type %q", token)
	}
	return Scalar{Kind: kind}, nil
}

func join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
