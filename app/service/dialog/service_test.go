package dialog

import (
	"context"
	"drant/app/client/prediction"
	"drant/app/service/facts"
	"drant/app/service/feature"
	"drant/app/service/query"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

const testSession = "projects/drant/agent/sessions/abc"

type fakePredictor struct {
	probability float64
	err         error
	queries     []string
}

func (f *fakePredictor) Predict(_ context.Context, q query.Query) (prediction.Result, error) {
	f.queries = append(f.queries, q.String())
	if f.err != nil {
		return prediction.Result{}, f.err
	}

	return prediction.Result{Probability: f.probability}, nil
}

func (f *fakePredictor) CeterisParibusURL(q query.Query, variable string) string {
	return "http://plots/ceteris_paribus?" + q.String() + "variable=" + variable
}

func (f *fakePredictor) BreakDownURL(q query.Query) string {
	return "http://plots/break_down?" + q.String()
}

func newTurn(t *testing.T, intent string, params map[string]any) *Turn {
	t.Helper()

	parameters, err := structpb.NewStruct(params)
	require.NoError(t, err)

	return &Turn{
		Session:    testSession,
		Intent:     intent,
		Parameters: parameters,
		Facts:      facts.NewSession(testSession, 100),
	}
}

func TestEveryIntentIsRegistered(t *testing.T) {
	s := NewService(&fakePredictor{})

	assert.ElementsMatch(t, []string{
		"Default Welcome Intent", "Default Fallback Intent",
		"problem_setting", "explain_feature", "list_variables", "end_conversation",
		"restart", "help_needed", "current_knowledge", "current_prediction",
		"specify_age", "specify_fare", "specify_parch", "specify_sibsp",
		"clear_variable", "multi_slot_filling",
		"telling_age", "telling_gender", "setting_embarked", "setting_class",
		"setting_fare", "setting_sibsp", "setting_parch", "travelling_alone",
		"jack_dawson", "rose_dewitt", "reset_jack", "reset_rose",
		"ceteris_paribus", "how_to_survive", "break_down",
	}, s.Intents())
}

func TestUnknownIntentFallsBack(t *testing.T) {
	predictor := &fakePredictor{}
	s := NewService(predictor)

	reply := s.Handle(context.Background(), newTurn(t, "order_pizza", nil))

	assert.Contains(t, reply.Texts()[0], "I don't understand yet")
	assert.Equal(t, []string{"help"}, reply.Suggestions())
	assert.Empty(t, predictor.queries)
}

func TestTellingAge(t *testing.T) {
	t.Run("valid age is stored and predicted", func(t *testing.T) {
		predictor := &fakePredictor{probability: 0.3}
		s := NewService(predictor)
		turn := newTurn(t, "telling_age", map[string]any{"number": float64(30)})

		reply := s.Handle(context.Background(), turn)

		assert.Equal(t, "30", turn.Facts.Get(feature.Age))
		require.Len(t, predictor.queries, 1)
		assert.Contains(t, predictor.queries[0], "age=30&")
		assert.Equal(t, []string{prediction.Result{Probability: 0.3}.Message()}, reply.Texts())
	})

	t.Run("negative age reprompts without mutation", func(t *testing.T) {
		predictor := &fakePredictor{}
		s := NewService(predictor)
		turn := newTurn(t, "telling_age", map[string]any{"number": float64(-4)})

		reply := s.Handle(context.Background(), turn)

		assert.Equal(t, []string{"I don't really think you are -4 years old. Tell me your real age."}, reply.Texts())
		assert.False(t, turn.Facts.Dirty())
		assert.Empty(t, predictor.queries)
	})

	t.Run("missing age asks with a follow-up", func(t *testing.T) {
		predictor := &fakePredictor{}
		s := NewService(predictor)
		turn := newTurn(t, "specify_age", map[string]any{"number": ""})

		reply := s.Handle(context.Background(), turn)

		assert.Equal(t, []FollowUp{{Name: "specify_age", Lifespan: 1}}, reply.FollowUps)
		assert.False(t, turn.Facts.Dirty())
		assert.Empty(t, predictor.queries)
	})
}

func TestSettingSibsp(t *testing.T) {
	t.Run("missing count", func(t *testing.T) {
		predictor := &fakePredictor{}
		s := NewService(predictor)
		turn := newTurn(t, "setting_sibsp", nil)

		reply := s.Handle(context.Background(), turn)

		assert.Equal(t, []string{sibspSlot.question}, reply.Texts())
		assert.Equal(t, []FollowUp{{Name: "specify_sibsp", Lifespan: 1}}, reply.FollowUps)
		assert.Empty(t, predictor.queries)
	})

	t.Run("zero is a valid count", func(t *testing.T) {
		predictor := &fakePredictor{probability: 0.5}
		s := NewService(predictor)
		turn := newTurn(t, "setting_sibsp", map[string]any{"number": float64(0)})

		reply := s.Handle(context.Background(), turn)

		assert.Equal(t, "0", turn.Facts.Get(feature.Sibsp))
		assert.Equal(t, []string{
			"I understood you travelled with 0 siblings and spouse altogether",
			prediction.Result{Probability: 0.5}.Message(),
		}, reply.Texts())
	})

	t.Run("fractional count is invalid", func(t *testing.T) {
		predictor := &fakePredictor{}
		s := NewService(predictor)
		turn := newTurn(t, "specify_parch", map[string]any{"number": 1.5})

		s.Handle(context.Background(), turn)

		assert.False(t, turn.Facts.Dirty())
		assert.Empty(t, predictor.queries)
	})
}

func TestSeparateWritesAccumulate(t *testing.T) {
	predictor := &fakePredictor{probability: 0.7}
	s := NewService(predictor)
	session := facts.NewSession(testSession, 100)

	ageTurn := newTurn(t, "telling_age", map[string]any{"number": float64(30)})
	ageTurn.Facts = session
	s.Handle(context.Background(), ageTurn)

	genderTurn := newTurn(t, "telling_gender", map[string]any{"gender": "male"})
	genderTurn.Facts = session
	s.Handle(context.Background(), genderTurn)

	require.Len(t, predictor.queries, 2)
	assert.Contains(t, predictor.queries[1], "age=30&")
	assert.Contains(t, predictor.queries[1], "gender_value=male&")
}

func TestPredictionFailure(t *testing.T) {
	predictor := &fakePredictor{err: errors.New("connection refused")}
	s := NewService(predictor)
	turn := newTurn(t, "setting_fare", map[string]any{"number": 7.25})

	reply := s.Handle(context.Background(), turn)

	assert.Equal(t, []string{predictionFailure}, reply.Texts())
	assert.Equal(t, "7.25", turn.Facts.Get(feature.Fare), "facts written before the call are kept")
}

func TestMultiSlotFilling(t *testing.T) {
	predictor := &fakePredictor{probability: 0.9}
	s := NewService(predictor)
	turn := newTurn(t, "multi_slot_filling", map[string]any{
		"number":           float64(17),
		"gender":           "female",
		"embarkment_place": "Southampton",
		"class":            "",
	})
	turn.Facts.SetOne(feature.Class, "1st")

	s.Handle(context.Background(), turn)

	assert.Equal(t, "17", turn.Facts.Get(feature.Age))
	assert.Equal(t, "female", turn.Facts.Get(feature.Gender))
	assert.Equal(t, "Southampton", turn.Facts.Get(feature.Embarked))
	assert.Equal(t, "1st", turn.Facts.Get(feature.Class))
	require.Len(t, predictor.queries, 1)
	assert.Equal(t,
		"age=17&gender_value=female&fare=X&class_value=1st&parch=X&sibsp=X&embarked=Southampton&",
		predictor.queries[0],
	)
}

func TestSettingClassPrompts(t *testing.T) {
	s := NewService(&fakePredictor{})

	cases := []struct {
		queryText string
		want      []string
	}{
		{"passenger", passengerTiers},
		{"crew", crewTiers},
		{"I was on the ship", travellerKinds},
	}

	for _, tc := range cases {
		t.Run(tc.queryText, func(t *testing.T) {
			turn := newTurn(t, "setting_class", nil)
			turn.QueryText = tc.queryText

			reply := s.Handle(context.Background(), turn)
			assert.Equal(t, tc.want, reply.Suggestions())
			assert.False(t, turn.Facts.Dirty())
		})
	}
}

func TestSettingEmbarkedPrompt(t *testing.T) {
	s := NewService(&fakePredictor{})

	reply := s.Handle(context.Background(), newTurn(t, "setting_embarked", nil))

	assert.Equal(t, embarkPlaces, reply.Suggestions())
}

func TestTravellingAlone(t *testing.T) {
	predictor := &fakePredictor{probability: 0.2}
	s := NewService(predictor)
	turn := newTurn(t, "travelling_alone", nil)
	turn.Facts.SetOne(feature.Age, "40")

	s.Handle(context.Background(), turn)

	assert.Equal(t, "0", turn.Facts.Get(feature.Parch))
	assert.Equal(t, "0", turn.Facts.Get(feature.Sibsp))
	assert.Equal(t, "40", turn.Facts.Get(feature.Age))
	require.Len(t, predictor.queries, 1)
	assert.Contains(t, predictor.queries[0], "parch=0&sibsp=0&")
}

func TestClearVariable(t *testing.T) {
	s := NewService(&fakePredictor{})

	t.Run("known variable", func(t *testing.T) {
		turn := newTurn(t, "clear_variable", map[string]any{"variable": "gender"})
		turn.Facts.SetOne(feature.Gender, "male")
		turn.Facts.SetOne(feature.Age, "30")

		reply := s.Handle(context.Background(), turn)

		assert.Equal(t, facts.Unset, turn.Facts.Get(feature.Gender))
		assert.Equal(t, "30", turn.Facts.Get(feature.Age))
		assert.Equal(t, []string{"Variable gender was cleared"}, reply.Texts())
		assert.Equal(t, afterClear, reply.Suggestions())
	})

	t.Run("unknown variable", func(t *testing.T) {
		turn := newTurn(t, "clear_variable", map[string]any{"variable": "height"})

		reply := s.Handle(context.Background(), turn)

		assert.Equal(t, []string{"I don't know the variable height"}, reply.Texts())
		assert.False(t, turn.Facts.Dirty())
	})
}

func TestCurrentKnowledge(t *testing.T) {
	s := NewService(&fakePredictor{})
	turn := newTurn(t, "current_knowledge", nil)
	turn.Facts.SetOne(feature.Age, "30")
	turn.Facts.SetOne(feature.Class, "2nd")

	reply := s.Handle(context.Background(), turn)

	assert.Equal(t, []string{
		"Age: 30",
		"Gender is not defined",
		"Fare is not defined",
		"Class: 2nd",
		"Number of parents/children is not defined",
		"Number of siblings/spouse is not defined",
		"Place of embarkment is not defined",
	}, reply.Texts())
}

func TestCurrentPredictionUsesFactsUnchanged(t *testing.T) {
	predictor := &fakePredictor{probability: 0.45}
	s := NewService(predictor)
	turn := newTurn(t, "current_prediction", nil)
	turn.Facts.SetMany(roseDeWitt)

	reply := s.Handle(context.Background(), turn)

	require.Len(t, predictor.queries, 1)
	assert.Equal(t,
		"age=17&gender_value=female&fare=X&class_value=1st&parch=1&sibsp=1&embarked=Southampton&",
		predictor.queries[0],
	)
	assert.Contains(t, reply.Texts()[0], "toss of a coin")
}

func TestPresetsAndReset(t *testing.T) {
	s := NewService(&fakePredictor{})
	session := facts.NewSession(testSession, 100)

	jack := newTurn(t, "jack_dawson", nil)
	jack.Facts = session
	reply := s.Handle(context.Background(), jack)

	assert.Equal(t, "3rd", session.Get(feature.Class))
	assert.Equal(t, "male", session.Get(feature.Gender))
	require.Len(t, reply.Messages, 3)
	assert.Equal(t, "Jack Dawson", reply.Messages[0].Card.Title)
	assert.Equal(t, afterPreset, reply.Suggestions())

	reset := newTurn(t, "reset_jack", nil)
	reset.Facts = session
	s.Handle(context.Background(), reset)

	for _, f := range feature.All() {
		assert.Equal(t, facts.Unset, session.Get(f.ID))
	}
	assert.Zero(t, session.Lifespan())
}

func TestExplainFeature(t *testing.T) {
	s := NewService(&fakePredictor{})

	t.Run("asks for the value afterwards", func(t *testing.T) {
		reply := s.Handle(context.Background(), newTurn(t, "explain_feature", map[string]any{"variable": "fare"}))

		assert.Equal(t, []string{"Ticket fare in pounds."}, reply.Texts())
		assert.Equal(t, []FollowUp{{Name: "specify_fare", Lifespan: 1}}, reply.FollowUps)
	})

	t.Run("no follow-up for gender", func(t *testing.T) {
		reply := s.Handle(context.Background(), newTurn(t, "explain_feature", map[string]any{"variable": "gender"}))

		assert.Empty(t, reply.FollowUps)
	})

	t.Run("unknown variable", func(t *testing.T) {
		reply := s.Handle(context.Background(), newTurn(t, "explain_feature", map[string]any{"variable": "height"}))

		assert.Equal(t, []string{"unknown variable height"}, reply.Texts())
		assert.Empty(t, reply.FollowUps)
	})
}

func TestListVariables(t *testing.T) {
	s := NewService(&fakePredictor{})

	reply := s.Handle(context.Background(), newTurn(t, "list_variables", nil))
	assert.Equal(t, []string{"age", "gender", "fare", "class", "More..."}, reply.Suggestions())

	more := newTurn(t, "list_variables", nil)
	more.QueryText = "More..."
	reply = s.Handle(context.Background(), more)
	assert.Equal(t, []string{"parch", "sibsp", "embarked"}, reply.Suggestions())
	assert.Empty(t, reply.Texts())
}

func TestPlots(t *testing.T) {
	predictor := &fakePredictor{}
	s := NewService(predictor)

	t.Run("ceteris paribus defaults to age", func(t *testing.T) {
		reply := s.Handle(context.Background(), newTurn(t, "ceteris_paribus", nil))

		require.Len(t, reply.Messages, 2)
		card := reply.Messages[1].Card
		require.NotNil(t, card)
		assert.Equal(t, "Ceteris Paribus plot", card.Title)
		assert.Equal(t, card.ImageURL, card.ButtonURL)
		assert.Contains(t, card.ImageURL, "&embarked=X&variable=age")
	})

	t.Run("ceteris paribus takes the first variable", func(t *testing.T) {
		reply := s.Handle(context.Background(), newTurn(t, "ceteris_paribus", map[string]any{
			"variable": []any{"fare", "age"},
		}))

		assert.Contains(t, reply.Messages[1].Card.ImageURL, "variable=fare")
	})

	t.Run("how to survive plots class", func(t *testing.T) {
		reply := s.Handle(context.Background(), newTurn(t, "how_to_survive", nil))

		assert.Contains(t, reply.Messages[1].Card.ImageURL, "variable=class")
		assert.Len(t, reply.Texts(), 3)
	})

	t.Run("break down", func(t *testing.T) {
		turn := newTurn(t, "break_down", nil)
		turn.Facts.SetOne(feature.Age, "30")

		reply := s.Handle(context.Background(), turn)

		card := reply.Messages[1].Card
		require.NotNil(t, card)
		assert.Equal(t, "Break down plot", card.Title)
		assert.Equal(t, "http://plots/break_down?age=30&gender_value=X&fare=X&class_value=X&parch=X&sibsp=X&embarked=X&", card.ImageURL)
	})

	assert.Empty(t, predictor.queries, "plots never call predict")
}
