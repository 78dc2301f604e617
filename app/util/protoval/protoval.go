package protoval

import (
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"
)

// String renders a scalar struct value as text. Lists yield their first item.
// Null, struct and empty list values are reported as absent.
func String(v *structpb.Value) (string, bool) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue, true
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64), true
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue), true
	case *structpb.Value_ListValue:
		items := kind.ListValue.GetValues()
		if len(items) == 0 {
			return "", false
		}
		return String(items[0])
	default:
		return "", false
	}
}

// Strings renders every item of a list value; a scalar yields a single item.
func Strings(v *structpb.Value) []string {
	list := v.GetListValue()
	if list == nil {
		if text, ok := String(v); ok {
			return []string{text}
		}
		return nil
	}

	result := make([]string, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		if text, ok := String(item); ok {
			result = append(result, text)
		}
	}

	return result
}
