package dialog

type MessageKind int

const (
	KindText MessageKind = iota
	KindCard
	KindImage
	KindSuggestion
)

type Card struct {
	Title      string
	Text       string
	ImageURL   string
	ButtonText string
	ButtonURL  string
}

type Message struct {
	Kind MessageKind
	// Text holds the line for KindText, the image URL for KindImage and the chip for KindSuggestion.
	Text string
	Card *Card
}

// FollowUp is a short-lived platform context that steers intent matching on the next turn.
type FollowUp struct {
	Name     string
	Lifespan int
}

// Reply collects the output of one turn in the order it was produced.
type Reply struct {
	Messages  []Message
	FollowUps []FollowUp
}

func (r *Reply) Text(lines ...string) {
	for _, line := range lines {
		r.Messages = append(r.Messages, Message{Kind: KindText, Text: line})
	}
}

func (r *Reply) Card(card Card) {
	r.Messages = append(r.Messages, Message{Kind: KindCard, Card: &card})
}

func (r *Reply) Image(url string) {
	r.Messages = append(r.Messages, Message{Kind: KindImage, Text: url})
}

func (r *Reply) Suggest(chips ...string) {
	for _, chip := range chips {
		r.Messages = append(r.Messages, Message{Kind: KindSuggestion, Text: chip})
	}
}

func (r *Reply) FollowUp(name string, lifespan int) {
	r.FollowUps = append(r.FollowUps, FollowUp{Name: name, Lifespan: lifespan})
}

// Texts returns the text lines only.
func (r *Reply) Texts() []string {
	var result []string
	for _, m := range r.Messages {
		if m.Kind == KindText {
			result = append(result, m.Text)
		}
	}

	return result
}

func (r *Reply) Suggestions() []string {
	var result []string
	for _, m := range r.Messages {
		if m.Kind == KindSuggestion {
			result = append(result, m.Text)
		}
	}

	return result
}
