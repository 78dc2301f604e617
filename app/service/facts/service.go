package facts

import (
	"context"
	"drant/app/config"
	"fmt"
	"log/slog"

	"cloud.google.com/go/dialogflow/apiv2/dialogflowpb"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

var _ do.Shutdownable = (*Service)(nil)

type Service struct {
	cfg    *config.Config
	shared Backend
	redis  *RedisBackend
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	s := &Service{
		cfg: cfg,
	}

	switch cfg.Session.Backend {
	case "memory":
		s.shared = NewMemoryBackend()
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Session.Redis.Addr,
			Password: cfg.Session.Redis.Password,
			DB:       cfg.Session.Redis.DB,
		})
		s.redis = NewRedisBackend(client, cfg.Session.Redis.TTL)
		s.shared = s.redis
	case "context":
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}

	slog.Info("Session facts backend ready", "backend", cfg.Session.Backend)

	return s, nil
}

// Backend returns the backend serving one turn of the given session.
func (s *Service) Backend(session string, contexts []*dialogflowpb.Context) Backend {
	if s.shared != nil {
		return s.shared
	}

	return NewContextBackend(session, contexts)
}

func (s *Service) Open(ctx context.Context, backend Backend, session string) (*Session, error) {
	return Open(ctx, backend, session, s.cfg.Session.Lifespan)
}

func (s *Service) Shutdown() error {
	if s.redis != nil {
		return s.redis.Close()
	}

	return nil
}
