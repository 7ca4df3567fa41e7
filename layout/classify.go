package layout

import (
	"fmt"

	"github.com/polarsignals/pqwriter/errs"
)

// FillKind is the shape of value a fillable path accepts.
type FillKind int

const (
	FillValue FillKind = iota + 1
	FillValueList1D
	FillValueList2D
	FillValueList3D
	FillStruct
	FillStructList1D
	FillStructList2D
	FillStructList3D
)

const maxListDepth = 3

func (k FillKind) String() string {
	switch k {
	case FillValue:
		return "VALUE"
	case FillValueList1D, FillValueList2D, FillValueList3D:
		return fmt.Sprintf("VALUE_LIST_%dD", k.Depth())
	case FillStruct:
		return "STRUCT"
	case FillStructList1D, FillStructList2D, FillStructList3D:
		return fmt.Sprintf("STRUCT_LIST_%dD", k.Depth())
	default:
		return "UNKNOWN"
	}
}

// Depth is the number of list levels the kind descends through.
func (k FillKind) Depth() int {
	switch k {
	case FillValueList1D, FillStructList1D:
		return 1
	case FillValueList2D, FillStructList2D:
		return 2
	case FillValueList3D, FillStructList3D:
		return 3
	default:
		return 0
	}
}

// IsStruct reports whether the kind takes struct payloads.
func (k FillKind) IsStruct() bool { return k >= FillStruct }

func valueList(depth int) FillKind  { return FillValueList1D + FillKind(depth-1) }
func structList(depth int) FillKind { return FillStructList1D + FillKind(depth-1) }

// Classify determines the FillKind of a column type found at path and checks
// the nesting rules: lists have at most three levels and any struct below
// the top level, or inside a list, has no struct or struct-list fields.
func Classify(path string, t ColumnType, topLevel bool) (FillKind, error) {
	switch t := t.(type) {
	case Scalar:
		return FillValue, nil
	case List:
		elem, depth := terminal(t)
		if depth > maxListDepth {
			return 0, errs.Schemaf(path, "list depth %d not supported, at most %d", depth, maxListDepth)
		}
		switch elem := elem.(type) {
		case Scalar:
			return valueList(depth), nil
		case Struct:
			if err := checkFlat(path, elem); err != nil {
				return 0, err
			}
			return structList(depth), nil
		default:
			return 0, errs.Schemaf(path, "unsupported list element %s", elem)
		}
	case Struct:
		if !topLevel {
			if err := checkFlat(path, t); err != nil {
				return 0, err
			}
			return FillStruct, nil
		}
		for _, f := range t.Fields {
			if _, err := Classify(join(path, f.Name), f.Type, false); err != nil {
				return 0, err
			}
		}
		return FillStruct, nil
	default:
		return 0, errs.Schemaf(path, "unsupported column type %T", t)
	}
}

func checkFlat(path string, s Struct) error {
	for _, f := range s.Fields {
		if _, ok := structOf(f.Type); ok {
			return errs.Schemaf(join(path, f.Name), "struct nested below another struct or list must not contain struct fields")
		}
		if _, err := Classify(join(path, f.Name), f.Type, false); err != nil {
			return err
		}
	}
	return nil
}
