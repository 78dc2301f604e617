package query

import (
	"drant/app/service/facts"
	"drant/app/service/feature"
	"strings"
)

// Pair is a single storage key and its value.
type Pair struct {
	Key   string
	Value string
}

// Override replaces the session value of a feature for one query.
func Override(id feature.ID, value string) Pair {
	return Pair{
		Key:   feature.Get(id).Key,
		Value: value,
	}
}

// Query is the ordered parameter list sent to the prediction service.
type Query []Pair

// Reader is the read side of a session fact set.
type Reader interface {
	Get(id feature.ID) string
}

var _ Reader = (*facts.Session)(nil)

// Assemble emits one pair per registered feature in registry order. The last
// override for a key wins over the session value.
func Assemble(session Reader, overrides ...Pair) Query {
	result := make(Query, 0, len(feature.All()))

	for _, f := range feature.All() {
		value := session.Get(f.ID)

		for _, o := range overrides {
			if o.Key == f.Key {
				value = o.Value
			}
		}

		result = append(result, Pair{Key: f.Key, Value: value})
	}

	return result
}

// String renders "key=value&" for every pair. The trailing separator is kept:
// plot URLs append their own parameters right after it.
func (q Query) String() string {
	var builder strings.Builder

	for _, p := range q {
		builder.WriteString(p.Key)
		builder.WriteByte('=')
		builder.WriteString(p.Value)
		builder.WriteByte('&')
	}

	return builder.String()
}
