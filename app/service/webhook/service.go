package webhook

import (
	"drant/app/config"
	"drant/app/service/dialog"
	"drant/app/service/facts"
	"drant/app/util/mylog"
	"log/slog"
	"time"

	"cloud.google.com/go/dialogflow/apiv2/dialogflowpb"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/samber/do"
	"google.golang.org/protobuf/encoding/protojson"
)

const (
	shutdownTimeout = 10 * time.Second
	storageFailure  = "Sorry, I lost track of what you told me. Please try again."
)

var unmarshalOptions = protojson.UnmarshalOptions{DiscardUnknown: true}

type Service struct {
	cfg       *config.Config
	factsSvc  *facts.Service
	dialogSvc *dialog.Service
	validate  *validator.Validate

	app *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*facts.Service](di),
		do.MustInvoke[*dialog.Service](di),
	), nil
}

func NewService(cfg *config.Config, factsSvc *facts.Service, dialogSvc *dialog.Service) *Service {
	s := &Service{
		cfg:       cfg,
		factsSvc:  factsSvc,
		dialogSvc: dialogSvc,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}

	app := fiber.New(fiber.Config{
		AppName:               "drant",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Post(cfg.Server.Path, s.handleFulfillment)

	s.app = app

	return s
}

func (s *Service) App() *fiber.App {
	return s.app
}

// Run serves until Shutdown is called.
func (s *Service) Run() error {
	slog.Info("Webhook listening",
		"listen", s.cfg.Server.Listen,
		"path", s.cfg.Server.Path,
		mylog.AlertKey, true,
	)

	return s.app.Listen(s.cfg.Server.Listen)
}

func (s *Service) Shutdown() error {
	return s.app.ShutdownWithTimeout(shutdownTimeout)
}

func (s *Service) handleFulfillment(c *fiber.Ctx) error {
	start := time.Now()
	ctx := c.UserContext()

	var req dialogflowpb.WebhookRequest
	if err := unmarshalOptions.Unmarshal(c.Body(), &req); err != nil {
		slog.WarnContext(ctx, "Malformed webhook request", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed request"})
	}

	result := req.GetQueryResult()
	session := req.GetSession()

	if err := s.validate.Var(session, "required"); err != nil {
		slog.WarnContext(ctx, "Webhook request without session", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session is required"})
	}

	backend := s.factsSvc.Backend(session, result.GetOutputContexts())

	sess, err := s.factsSvc.Open(ctx, backend, session)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to open session facts", "session", session, "error", err)

		var reply dialog.Reply
		reply.Text(storageFailure)
		return s.send(c, encodeReply(session, &reply))
	}

	turn := &dialog.Turn{
		Session:    session,
		Intent:     result.GetIntent().GetDisplayName(),
		QueryText:  result.GetQueryText(),
		Parameters: result.GetParameters(),
		Facts:      sess,
	}

	reply := s.dialogSvc.Handle(ctx, turn)
	changed := sess.Dirty()

	if err = sess.Commit(ctx, backend); err != nil {
		slog.ErrorContext(ctx, "Failed to commit session facts", "session", session, "error", err)
		reply.Text(storageFailure)
	}

	resp := encodeReply(session, reply)
	if cb, ok := backend.(*facts.ContextBackend); ok && cb.OutputContext() != nil {
		resp.OutputContexts = append(resp.OutputContexts, cb.OutputContext())
	}

	slog.InfoContext(ctx, "Processed turn",
		"session", session,
		"intent", turn.Intent,
		"text", turn.QueryText,
		"changed", changed,
		"lifespan", sess.Lifespan(),
		"duration", time.Since(start),
	)

	return s.send(c, resp)
}

func (s *Service) send(c *fiber.Ctx, resp *dialogflowpb.WebhookResponse) error {
	body, err := protojson.Marshal(resp)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to encode response")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}
