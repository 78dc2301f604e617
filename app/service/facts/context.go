package facts

import (
	"context"
	"drant/app/util/protoval"
	"strings"

	"cloud.google.com/go/dialogflow/apiv2/dialogflowpb"
	"github.com/samber/oops"
	"google.golang.org/protobuf/types/known/structpb"
)

const StorageContext = "storage_context"

var _ Backend = (*ContextBackend)(nil)

// ContextBackend keeps facts in the platform's storage_context. It lives for
// a single turn: it reads the context that came with the request and records
// the context to send back. The platform itself decrements the lifespan.
type ContextBackend struct {
	name string
	in   *dialogflowpb.Context
	out  *dialogflowpb.Context
}

func NewContextBackend(session string, contexts []*dialogflowpb.Context) *ContextBackend {
	b := &ContextBackend{
		name: ContextName(session, StorageContext),
	}

	for _, c := range contexts {
		if strings.HasSuffix(c.GetName(), "/contexts/"+StorageContext) {
			b.in = c
			break
		}
	}

	return b
}

func ContextName(session, name string) string {
	return session + "/contexts/" + name
}

func (b *ContextBackend) Load(_ context.Context, _ string) (Snapshot, error) {
	if b.in == nil || b.in.GetLifespanCount() <= 0 {
		return Snapshot{}, nil
	}

	values := make(map[string]string)
	for key, value := range b.in.GetParameters().GetFields() {
		if text, ok := protoval.String(value); ok {
			values[key] = text
		}
	}

	return Snapshot{
		Values:   values,
		Lifespan: int(b.in.GetLifespanCount()),
	}, nil
}

func (b *ContextBackend) Save(_ context.Context, sessionID string, snap Snapshot) error {
	fields := make(map[string]any, len(snap.Values))
	for key, value := range snap.Values {
		fields[key] = value
	}

	params, err := structpb.NewStruct(fields)
	if err != nil {
		return oops.In("facts").With("session", sessionID).Wrapf(err, "failed to encode context parameters")
	}

	lifespan := max(snap.Lifespan, 0)

	b.out = &dialogflowpb.Context{
		Name:          b.name,
		LifespanCount: int32(lifespan),
		Parameters:    params,
	}

	return nil
}

// OutputContext returns the context to emit, or nil if nothing was saved.
func (b *ContextBackend) OutputContext() *dialogflowpb.Context {
	return b.out
}
