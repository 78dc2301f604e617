package dialog

import "drant/app/service/feature"

const (
	wikiURL           = "https://en.wikipedia.org/wiki/Passengers_of_the_RMS_Titanic"
	problemImageURL   = "https://natgeo.imgix.net/factsheets/thumbnails/RMSTitanic_TimelineofDisaster_Titanic.jpg?auto=compress,format&w=1024&h=560&fit=crop"
	welcomeImageURL   = "https://upload.wikimedia.org/wikipedia/en/b/bb/Titanic_breaks_in_half.jpg"
	jackAndRoseURL    = "https://vignette.wikia.nocookie.net/jamescameronstitanic/images/b/b9/Roseandjack.jpg/revision/latest?cb=20110213201351"
	goodbyeImageURL   = "https://vignette.wikia.nocookie.net/jamescameronstitanic/images/5/55/Jack_and_Rose-2.jpg/revision/latest?cb=20120405074438"
	jackPhotoURL      = "https://vignette.wikia.nocookie.net/jamescameronstitanic/images/e/ef/Untitledhgkjljlklk.png"
	rosePhotoURL      = "https://vignette.wikia.nocookie.net/jamescameronstitanic/images/d/d3/Rosedewittbukater.jpg/revision/latest?cb=20120518041253"
	predictionFailure = "I couldn't reach the prediction service, please try again in a moment."
	unknownVariable   = "I don't know the variable %s"
	moreChip          = "More..."
	firstListed       = 4
	followUpLifespan  = 1
	defaultPlotTarget = "age"
)

var (
	embarkPlaces    = []string{"Belfast", "Cherbourg", "Queenstown", "Southampton"}
	passengerTiers  = []string{"1st", "2nd", "3rd"}
	crewTiers       = []string{"deck crew", "engineering crew", "restaurant staff", "victualling crew"}
	travellerKinds  = []string{"passenger", "crew"}
	genders         = []string{"male", "female"}
	afterPreset     = []string{"survival prediction", "passenger information"}
	afterClear      = []string{"passenger details", "survival chance"}
	helpSuggestions = []string{"list all variables", "describe the problem", "what do you know about me?"}
)

var jackDawson = map[feature.ID]string{
	feature.Age:      "20",
	feature.Gender:   "male",
	feature.Embarked: "Southampton",
	feature.Sibsp:    "0",
	feature.Parch:    "0",
	feature.Class:    "3rd",
}

var roseDeWitt = map[feature.ID]string{
	feature.Age:      "17",
	feature.Gender:   "female",
	feature.Embarked: "Southampton",
	feature.Sibsp:    "1",
	feature.Parch:    "1",
	feature.Class:    "1st",
}

// Features whose explanation is followed by a question for their value.
var askAfterExplain = map[feature.ID]bool{
	feature.Age:   true,
	feature.Fare:  true,
	feature.Parch: true,
	feature.Sibsp: true,
	feature.Class: true,
}
