package dialog

import (
	"context"
	"drant/app/service/feature"
	"drant/app/service/query"
	"fmt"
	"slices"

	"github.com/elliotchance/pie/v2"
)

const (
	genderParam    = "gender"
	embarkedParam  = "embarkment_place"
	classParam     = "class"
	variableParam  = "variable"
	passengerQuery = "passenger"
	crewQuery      = "crew"
)

func (s *Service) welcome(_ context.Context, _ *Turn, reply *Reply) {
	reply.Text("Hello! I'm DrAnt, a Titanic survival bot. Let's see whether you would've survived on Titanic and discuss the model predictions.")
	reply.Image(welcomeImageURL)
	reply.Text(
		"You might start by telling some details about you",
		"List variables and ask about their meaning at any time:",
	)
	reply.Suggest("list variables", "describe the problem")
	reply.Text("You might also start as Jack or Rose from the movie :)")
	reply.Image(jackAndRoseURL)
	reply.Suggest("Jack", "Rose")
}

func (s *Service) fallback(_ context.Context, _ *Turn, reply *Reply) {
	reply.Text(
		"Sorry, I don't understand yet. But I'll learn from this conversation and improve in the future!",
		"Click below if you need help",
	)
	reply.Suggest("help")
}

func (s *Service) helpNeeded(_ context.Context, _ *Turn, reply *Reply) {
	reply.Suggest(helpSuggestions...)
}

func (s *Service) problemSetting(_ context.Context, _ *Turn, reply *Reply) {
	reply.Card(Card{
		Title:      "Titanic disaster",
		ImageURL:   problemImageURL,
		ButtonText: "Read more...",
		ButtonURL:  wikiURL,
	})
}

func (s *Service) explainFeature(ctx context.Context, turn *Turn, reply *Reply) {
	name, ok := turn.Param(variableParam)
	if !ok {
		s.listVariables(ctx, turn, reply)
		return
	}

	if f, known := feature.ByName(name); known && askAfterExplain[f.ID] {
		reply.FollowUp("specify_"+f.Name, followUpLifespan)
	}

	reply.Text(feature.Description(name))
}

func (s *Service) listVariables(_ context.Context, turn *Turn, reply *Reply) {
	names := feature.Names()

	if turn.QueryText == moreChip {
		reply.Suggest(names[firstListed:]...)
		return
	}

	reply.Text("Click on the variable to see a detailed description")
	reply.Suggest(names[:firstListed]...)
	reply.Suggest(moreChip)
}

func (s *Service) currentKnowledge(_ context.Context, turn *Turn, reply *Reply) {
	for _, f := range feature.All() {
		if !turn.Facts.Known(f.ID) {
			reply.Text(f.Label + " is not defined")
			continue
		}

		reply.Text(f.Label + ": " + turn.Facts.Get(f.ID))
	}
}

func (s *Service) currentPrediction(ctx context.Context, turn *Turn, reply *Reply) {
	s.predict(ctx, turn, reply)
}

func (s *Service) restart(_ context.Context, turn *Turn, reply *Reply) {
	turn.Facts.Reset()
	reply.Text("Let's start from the beginning!")
}

func (s *Service) endConversation(_ context.Context, turn *Turn, reply *Reply) {
	turn.Facts.Reset()
	reply.Text("Bye :( Great talking to you! Come back later, as I will improve!")
	reply.Image(goodbyeImageURL)
}

func (s *Service) clearVariable(_ context.Context, turn *Turn, reply *Reply) {
	name, ok := turn.Param(variableParam)
	if !ok {
		reply.Text("Which variable should I clear?")
		reply.Suggest(feature.Names()...)
		return
	}

	f, known := feature.ByName(name)
	if !known {
		reply.Text(fmt.Sprintf(unknownVariable, name))
		return
	}

	turn.Facts.Clear(f.ID)

	reply.Text(fmt.Sprintf("Variable %s was cleared", f.Name))
	reply.Suggest(afterClear...)
}

func (s *Service) multiSlotFilling(ctx context.Context, turn *Turn, reply *Reply) {
	values := make(map[feature.ID]string)

	if age, ok := turn.Param(numberParam); ok {
		if !ageSlot.valid(age) {
			reply.Text(fmt.Sprintf(ageSlot.invalid, age))
			return
		}
		values[feature.Age] = age
	}

	for param, id := range map[string]feature.ID{
		genderParam:   feature.Gender,
		embarkedParam: feature.Embarked,
		classParam:    feature.Class,
	} {
		if value, ok := turn.Param(param); ok {
			values[id] = value
		}
	}

	turn.Facts.SetMany(values)
	s.predict(ctx, turn, reply, overridesOf(values)...)
}

func (s *Service) tellingGender(ctx context.Context, turn *Turn, reply *Reply) {
	gender, ok := turn.Param(genderParam)
	if !ok {
		reply.Text("Are you male or female?")
		reply.Suggest(genders...)
		return
	}

	turn.Facts.SetOne(feature.Gender, gender)
	s.predict(ctx, turn, reply, query.Override(feature.Gender, gender))
}

func (s *Service) settingEmbarked(ctx context.Context, turn *Turn, reply *Reply) {
	place, ok := turn.Param(embarkedParam)
	if !ok {
		reply.Text("Where have you embarked on the Titanic? Possible places were:")
		reply.Suggest(embarkPlaces...)
		return
	}

	turn.Facts.SetOne(feature.Embarked, place)
	s.predict(ctx, turn, reply, query.Override(feature.Embarked, place))
}

func (s *Service) settingClass(ctx context.Context, turn *Turn, reply *Reply) {
	class, ok := turn.Param(classParam)
	if ok {
		turn.Facts.SetOne(feature.Class, class)
		s.predict(ctx, turn, reply, query.Override(feature.Class, class))
		return
	}

	switch turn.QueryText {
	case passengerQuery:
		reply.Suggest(passengerTiers...)
	case crewQuery:
		reply.Suggest(crewTiers...)
	default:
		reply.Text("Were you travelling as a passenger or part of the crew?")
		reply.Suggest(travellerKinds...)
	}
}

func (s *Service) travellingAlone(ctx context.Context, turn *Turn, reply *Reply) {
	reply.Text("I understand you travelled alone. I'm setting sibsp and parch to zero.")

	values := map[feature.ID]string{
		feature.Parch: "0",
		feature.Sibsp: "0",
	}

	turn.Facts.SetMany(values)
	s.predict(ctx, turn, reply, overridesOf(values)...)
}

func (s *Service) jackDawson(_ context.Context, turn *Turn, reply *Reply) {
	turn.Facts.SetMany(jackDawson)

	reply.Card(Card{
		Title:    "Jack Dawson",
		ImageURL: jackPhotoURL,
		Text:     "Jack has died from hypothermia",
	})
	reply.Suggest(afterPreset...)
}

func (s *Service) roseDeWitt(_ context.Context, turn *Turn, reply *Reply) {
	turn.Facts.SetMany(roseDeWitt)

	reply.Card(Card{
		Title:    "Rose DeWitt Bukater",
		ImageURL: rosePhotoURL,
		Text:     "Rose survived the catastrophe",
	})
	reply.Suggest(afterPreset...)
}

func (s *Service) ceterisParibus(ctx context.Context, turn *Turn, reply *Reply) {
	variable := defaultPlotTarget
	if names := turn.ParamList(variableParam); len(names) > 0 {
		variable = names[0]
	}

	s.ceterisParibusPlot(ctx, turn, reply, variable)
}

// ceterisParibusPlot reports whether the plot was produced.
func (s *Service) ceterisParibusPlot(_ context.Context, turn *Turn, reply *Reply, variable string) bool {
	f, known := feature.ByName(variable)
	if !known {
		reply.Text(fmt.Sprintf(unknownVariable, variable))
		return false
	}

	url := s.predictor.CeterisParibusURL(query.Assemble(turn.Facts), f.Name)

	reply.Text("Creating a plot. It may take a few seconds...")
	reply.Card(Card{
		Title:      "Ceteris Paribus plot",
		ImageURL:   url,
		ButtonText: "See larger plot",
		ButtonURL:  url,
	})

	return true
}

func (s *Service) howToSurvive(ctx context.Context, turn *Turn, reply *Reply) {
	if !s.ceterisParibusPlot(ctx, turn, reply, feature.Get(feature.Class).Name) {
		return
	}

	reply.Text(
		"Travelling in a different class might increase your survival chance",
		"You might also ask what-if questions for other variables",
	)
}

func (s *Service) breakDown(_ context.Context, turn *Turn, reply *Reply) {
	url := s.predictor.BreakDownURL(query.Assemble(turn.Facts))

	reply.Text("Creating a plot. It may take a few seconds...")
	reply.Card(Card{
		Title:      "Break down plot",
		ImageURL:   url,
		Text:       "This chart illustrates the contribution of variables to the final prediction",
		ButtonText: "See larger plot",
		ButtonURL:  url,
	})
}

// overridesOf lists the values in registry order so the result is deterministic.
func overridesOf(values map[feature.ID]string) []query.Pair {
	ids := pie.Keys(values)
	slices.Sort(ids)

	return pie.Map(ids, func(id feature.ID) query.Pair {
		return query.Override(id, values[id])
	})
}
