package dialog

import (
	"drant/app/service/facts"
	"drant/app/util/protoval"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"
)

// Turn is one request from the platform with the session facts opened for it.
type Turn struct {
	Session    string
	Intent     string
	QueryText  string
	Parameters *structpb.Struct
	Facts      *facts.Session
}

// Param returns a non-empty scalar parameter. Lists yield their first item.
func (t *Turn) Param(name string) (string, bool) {
	value, ok := t.Parameters.GetFields()[name]
	if !ok {
		return "", false
	}

	text, ok := protoval.String(value)
	if !ok {
		return "", false
	}

	text = strings.TrimSpace(text)
	return text, text != ""
}

func (t *Turn) ParamList(name string) []string {
	value, ok := t.Parameters.GetFields()[name]
	if !ok {
		return nil
	}

	var result []string
	for _, item := range protoval.Strings(value) {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}

	return result
}
