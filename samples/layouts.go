// Package samples holds canned layouts and a random row generator used by
// tests, examples and parquet-tool.
package samples

import (
	"github.com/polarsignals/pqwriter/layout"
)

// Scalars has one column per scalar type, as a single value and as lists of
// each supported depth.
const Scalars = `{
	"fields": [
		{"name": "col0", "type": "bool"},
		{"name": "col1", "type": "int8"},
		{"name": "col2", "type": "int16"},
		{"name": "col3", "type": "int32"},
		{"name": "col4", "type": "int64"},
		{"name": "col5", "type": "uint8"},
		{"name": "col6", "type": "uint16"},
		{"name": "col7", "type": "uint32"},
		{"name": "col8", "type": "uint64"},
		{"name": "col9", "type": "float"},
		{"name": "col10", "type": "double"},
		{"name": "col11", "type": "string"},
		{"name": "col12", "type": "list1d", "contains": {"type": "bool"}},
		{"name": "col13", "type": "list1d", "contains": {"type": "int32"}},
		{"name": "col14", "type": "list1d", "contains": {"type": "uint64"}},
		{"name": "col15", "type": "list1d", "contains": {"type": "string"}},
		{"name": "col16", "type": "list2d", "contains": {"type": "int16"}},
		{"name": "col17", "type": "list2d", "contains": {"type": "float"}},
		{"name": "col18", "type": "list3d", "contains": {"type": "uint8"}},
		{"name": "col19", "type": "list3d", "contains": {"type": "double"}}
	]
}`

// Structs covers every struct shape: a flat struct, a struct list, and top
// level structs whose struct and struct-list fields are filled on their own
// path.
const Structs = `{
	"fields": [
		{"name": "basic_struct", "type": "struct", "fields": [
			{"name": "float_field", "type": "float"},
			{"name": "int_field", "type": "int32"},
			{"name": "list_field", "type": "list1d", "contains": {"type": "int32"}}
		]},
		{"name": "struct_list1d", "type": "list1d", "contains": {"type": "struct", "fields": [
			{"name": "float_field", "type": "float"},
			{"name": "int_field", "type": "int32"},
			{"name": "list_field", "type": "list1d", "contains": {"type": "int32"}}
		]}},
		{"name": "struct_with_struct", "type": "struct", "fields": [
			{"name": "float_field", "type": "float"},
			{"name": "int_field", "type": "int32"},
			{"name": "list_field", "type": "list1d", "contains": {"type": "int32"}},
			{"name": "struct_field", "type": "struct", "fields": [
				{"name": "float_field", "type": "float"},
				{"name": "int_field", "type": "int32"},
				{"name": "list_field", "type": "list1d", "contains": {"type": "int32"}}
			]}
		]},
		{"name": "struct_with_struct_list", "type": "struct", "fields": [
			{"name": "float_field", "type": "float"},
			{"name": "int_field", "type": "int32"},
			{"name": "list_field", "type": "list1d", "contains": {"type": "int32"}},
			{"name": "struct_list", "type": "list2d", "contains": {"type": "struct", "fields": [
				{"name": "name", "type": "string"},
				{"name": "values", "type": "list1d", "contains": {"type": "double"}}
			]}}
		]}
	]
}`

// Metadata is a metadata document accepted by pqwriter.WithMetadataJSON.
const Metadata = `{
	"metadata": {
		"dataset_name": "example",
		"foo": "bar",
		"n_things": 42,
		"things": {"foo": "bar"}
	}
}`

// MustSchema compiles doc and panics on error.
func MustSchema(doc string) *layout.Schema {
	s, err := layout.Parse([]byte(doc))
	if err != nil {
		panic(err)
	}
	return s
}
