package webhook

import (
	"drant/app/service/dialog"
	"drant/app/service/facts"
	"strings"

	"cloud.google.com/go/dialogflow/apiv2/dialogflowpb"
)

// encodeReply renders a reply as platform rich messages. Adjacent suggestions
// share one quick replies message.
func encodeReply(session string, reply *dialog.Reply) *dialogflowpb.WebhookResponse {
	resp := &dialogflowpb.WebhookResponse{
		FulfillmentText: strings.Join(reply.Texts(), "\n"),
	}

	var chips *dialogflowpb.Intent_Message_QuickReplies

	for _, m := range reply.Messages {
		if m.Kind != dialog.KindSuggestion {
			chips = nil
		}

		switch m.Kind {
		case dialog.KindText:
			resp.FulfillmentMessages = append(resp.FulfillmentMessages, &dialogflowpb.Intent_Message{
				Message: &dialogflowpb.Intent_Message_Text_{
					Text: &dialogflowpb.Intent_Message_Text{Text: []string{m.Text}},
				},
			})
		case dialog.KindImage:
			resp.FulfillmentMessages = append(resp.FulfillmentMessages, &dialogflowpb.Intent_Message{
				Message: &dialogflowpb.Intent_Message_Image_{
					Image: &dialogflowpb.Intent_Message_Image{ImageUri: m.Text},
				},
			})
		case dialog.KindCard:
			resp.FulfillmentMessages = append(resp.FulfillmentMessages, &dialogflowpb.Intent_Message{
				Message: &dialogflowpb.Intent_Message_Card_{Card: encodeCard(m.Card)},
			})
		case dialog.KindSuggestion:
			if chips == nil {
				chips = &dialogflowpb.Intent_Message_QuickReplies{}
				resp.FulfillmentMessages = append(resp.FulfillmentMessages, &dialogflowpb.Intent_Message{
					Message: &dialogflowpb.Intent_Message_QuickReplies_{QuickReplies: chips},
				})
			}
			chips.QuickReplies = append(chips.QuickReplies, m.Text)
		}
	}

	for _, f := range reply.FollowUps {
		resp.OutputContexts = append(resp.OutputContexts, &dialogflowpb.Context{
			Name:          facts.ContextName(session, f.Name),
			LifespanCount: int32(f.Lifespan),
		})
	}

	return resp
}

func encodeCard(card *dialog.Card) *dialogflowpb.Intent_Message_Card {
	result := &dialogflowpb.Intent_Message_Card{
		Title:    card.Title,
		Subtitle: card.Text,
		ImageUri: card.ImageURL,
	}

	if card.ButtonText != "" {
		result.Buttons = []*dialogflowpb.Intent_Message_Card_Button{
			{Text: card.ButtonText, Postback: card.ButtonURL},
		}
	}

	return result
}
