package dialog

import (
	"context"
	"drant/app/client/prediction"
	"drant/app/service/query"
	"log/slog"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

const FallbackIntent = "Default Fallback Intent"

type Predictor interface {
	Predict(ctx context.Context, q query.Query) (prediction.Result, error)
	CeterisParibusURL(q query.Query, variable string) string
	BreakDownURL(q query.Query) string
}

var _ Predictor = (*prediction.Client)(nil)

type HandlerFunc func(ctx context.Context, turn *Turn, reply *Reply)

type Service struct {
	predictor Predictor
	intents   map[string]HandlerFunc
}

func New(di *do.Injector) (*Service, error) {
	s := NewService(do.MustInvoke[*prediction.Client](di))

	slog.Info("Dialog handlers ready", "intents", len(s.Intents()))

	return s, nil
}

func NewService(predictor Predictor) *Service {
	s := &Service{
		predictor: predictor,
	}

	s.intents = map[string]HandlerFunc{
		"Default Welcome Intent": s.welcome,
		FallbackIntent:           s.fallback,

		"problem_setting":    s.problemSetting,
		"explain_feature":    s.explainFeature,
		"list_variables":     s.listVariables,
		"end_conversation":   s.endConversation,
		"restart":            s.restart,
		"help_needed":        s.helpNeeded,
		"current_knowledge":  s.currentKnowledge,
		"current_prediction": s.currentPrediction,

		"specify_age":   s.fillSlot(ageSlot),
		"specify_fare":  s.fillSlot(fareSlot),
		"specify_parch": s.fillSlot(parchSlot),
		"specify_sibsp": s.fillSlot(sibspSlot),

		"clear_variable":     s.clearVariable,
		"multi_slot_filling": s.multiSlotFilling,

		"telling_age":      s.fillSlot(ageSlot),
		"telling_gender":   s.tellingGender,
		"setting_embarked": s.settingEmbarked,
		"setting_class":    s.settingClass,
		"setting_fare":     s.fillSlot(fareSlot),
		"setting_sibsp":    s.fillSlot(sibspSlot),
		"setting_parch":    s.fillSlot(parchSlot),
		"travelling_alone": s.travellingAlone,

		"jack_dawson": s.jackDawson,
		"rose_dewitt": s.roseDeWitt,
		"reset_jack":  s.restart,
		"reset_rose":  s.restart,

		"ceteris_paribus": s.ceterisParibus,
		"how_to_survive":  s.howToSurvive,
		"break_down":      s.breakDown,
	}

	return s
}

// Intents lists the intent names with a handler.
func (s *Service) Intents() []string {
	return pie.Keys(s.intents)
}

// Handle runs the handler for the turn's intent. Unknown intents get the fallback.
func (s *Service) Handle(ctx context.Context, turn *Turn) *Reply {
	handler, ok := s.intents[turn.Intent]
	if !ok {
		slog.WarnContext(ctx, "Unknown intent", "intent", turn.Intent, "session", turn.Session)
		handler = s.fallback
	}

	var reply Reply
	handler(ctx, turn, &reply)

	return &reply
}

// predict assembles the session facts and reports the prediction. The
// overrides carry the values written in this turn.
func (s *Service) predict(ctx context.Context, turn *Turn, reply *Reply, overrides ...query.Pair) {
	q := query.Assemble(turn.Facts, overrides...)

	result, err := s.predictor.Predict(ctx, q)
	if err != nil {
		slog.ErrorContext(ctx, "Prediction failed",
			"session", turn.Session,
			"intent", turn.Intent,
			"query", q.String(),
			"error", err,
		)
		reply.Text(predictionFailure)
		return
	}

	slog.InfoContext(ctx, "Prediction made",
		"session", turn.Session,
		"query", q.String(),
		"probability", result.Probability,
		"band", result.Band().String(),
	)

	reply.Text(result.Message())
}
