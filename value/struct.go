package value

// Struct is a payload for one struct instance.
type Struct interface {
	Value
	isStruct()
}

// FieldBuffer holds the values of a struct's non-struct fields in layout
// order. A nil entry is an explicit null for that field.
type FieldBuffer []Value

func (FieldBuffer) Kind() Kind       { return KindStruct }
func (FieldBuffer) Depth() int       { return 0 }
func (FieldBuffer) TypeName() string { return "struct" }
func (FieldBuffer) sealed()          {}
func (FieldBuffer) isStruct()        {}

// FieldMap holds struct field values by name. Fields that are absent are
// filled with nulls.
type FieldMap map[string]Value

func (FieldMap) Kind() Kind       { return KindStruct }
func (FieldMap) Depth() int       { return 0 }
func (FieldMap) TypeName() string { return "struct" }
func (FieldMap) sealed()          {}
func (FieldMap) isStruct()        {}

// StructList1D is a list of struct payloads.
type StructList1D []Struct

func (StructList1D) Kind() Kind       { return KindStruct }
func (StructList1D) Depth() int       { return 1 }
func (StructList1D) TypeName() string { return typeName(KindStruct, 1) }
func (StructList1D) sealed()          {}

type StructList2D [][]Struct

func (StructList2D) Kind() Kind       { return KindStruct }
func (StructList2D) Depth() int       { return 2 }
func (StructList2D) TypeName() string { return typeName(KindStruct, 2) }
func (StructList2D) sealed()          {}

type StructList3D [][][]Struct

func (StructList3D) Kind() Kind       { return KindStruct }
func (StructList3D) Depth() int       { return 3 }
func (StructList3D) TypeName() string { return typeName(KindStruct, 3) }
func (StructList3D) sealed()          {}
