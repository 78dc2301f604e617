package feature

import (
	"fmt"

	"github.com/elliotchance/pie/v2"
)

type ID int

const (
	Age ID = iota
	Gender
	Fare
	Class
	Parch
	Sibsp
	Embarked
)

// Feature is one predictive variable with both of its names.
type Feature struct {
	ID          ID
	Name        string
	Key         string
	Label       string
	Description string
}

var registry = []Feature{
	{
		ID:          Age,
		Name:        "age",
		Key:         "age",
		Label:       "Age",
		Description: "Age in years.",
	},
	{
		ID:          Gender,
		Name:        "gender",
		Key:         "gender_value",
		Label:       "Gender",
		Description: `Gender either "male" or "female"`,
	},
	{
		ID:          Fare,
		Name:        "fare",
		Key:         "fare",
		Label:       "Fare",
		Description: "Ticket fare in pounds.",
	},
	{
		ID:          Class,
		Name:        "class",
		Key:         "class_value",
		Label:       "Class",
		Description: `Passenger class. One of ("1st", "2nd", "3rd", "deck crew", "engineering crew", "restaurant staff" or "victualling crew")`,
	},
	{
		ID:          Parch,
		Name:        "parch",
		Key:         "parch",
		Label:       "Number of parents/children",
		Description: "Number of Parent/Child aboard",
	},
	{
		ID:          Sibsp,
		Name:        "sibsp",
		Key:         "sibsp",
		Label:       "Number of siblings/spouse",
		Description: "Number of Sibling/Spouse aboard",
	},
	{
		ID:          Embarked,
		Name:        "embarked",
		Key:         "embarked",
		Label:       "Place of embarkment",
		Description: `Where did the passenger embark. One of ("Belfast", "Cherbourg", "Queenstown", "Southampton")`,
	},
}

// All returns the features in their fixed declaration order.
func All() []Feature {
	return append([]Feature(nil), registry...)
}

// Names returns canonical names in declaration order.
func Names() []string {
	return pie.Map(registry, func(f Feature) string {
		return f.Name
	})
}

func Get(id ID) Feature {
	return registry[id]
}

func ByName(name string) (Feature, bool) {
	idx := pie.FindFirstUsing(registry, func(f Feature) bool {
		return f.Name == name
	})
	if idx < 0 {
		return Feature{}, false
	}

	return registry[idx], true
}

func ByKey(key string) (Feature, bool) {
	idx := pie.FindFirstUsing(registry, func(f Feature) bool {
		return f.Key == key
	})
	if idx < 0 {
		return Feature{}, false
	}

	return registry[idx], true
}

// KeyOf translates a canonical name to its storage key. Unknown names map to themselves.
func KeyOf(name string) string {
	if f, ok := ByName(name); ok {
		return f.Key
	}

	return name
}

// NameOf translates a storage key back to its canonical name. Unknown keys map to themselves.
func NameOf(key string) string {
	if f, ok := ByKey(key); ok {
		return f.Name
	}

	return key
}

func Label(name string) string {
	if f, ok := ByName(name); ok {
		return f.Label
	}

	return name
}

func Description(name string) string {
	if f, ok := ByName(name); ok {
		return f.Description
	}

	return fmt.Sprintf("unknown variable %s", name)
}

func (id ID) String() string {
	if id < 0 || int(id) >= len(registry) {
		return fmt.Sprintf("feature(%d)", int(id))
	}

	return registry[id].Name
}
