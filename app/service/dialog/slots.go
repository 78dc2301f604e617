package dialog

import (
	"context"
	"drant/app/service/feature"
	"drant/app/service/query"
	"fmt"
	"math"
	"strconv"
)

const numberParam = "number"

// numberSlot describes how one numeric feature is asked for and checked.
type numberSlot struct {
	id      feature.ID
	integer bool
	// question is asked when the value is missing, invalid when it fails the checks.
	question string
	invalid  string
	// confirm is echoed before predicting when set.
	confirm string
}

var (
	ageSlot = numberSlot{
		id:       feature.Age,
		question: "How old are you?",
		invalid:  "I don't really think you are %s years old. Tell me your real age.",
	}
	fareSlot = numberSlot{
		id:       feature.Fare,
		question: "How much did you pay for your ticket?",
		invalid:  "A ticket couldn't cost %s pounds. How much did you pay for it?",
	}
	sibspSlot = numberSlot{
		id:       feature.Sibsp,
		integer:  true,
		question: "I'm sorry. I'm not sure. How many siblings and spouse altogether you travelled with?",
		invalid:  "%s doesn't look like a number of people. How many siblings and spouse altogether you travelled with?",
		confirm:  "I understood you travelled with %s siblings and spouse altogether",
	}
	parchSlot = numberSlot{
		id:       feature.Parch,
		integer:  true,
		question: "I'm sorry. I'm not sure. How many parents and children altogether you travelled with?",
		invalid:  "%s doesn't look like a number of people. How many parents and children altogether you travelled with?",
		confirm:  "I understood you travelled with %s parents and children altogether",
	}
)

func (n numberSlot) valid(value string) bool {
	number, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) || number < 0 {
		return false
	}

	return !n.integer || number == math.Trunc(number)
}

// fillSlot records a numeric answer and predicts with it. A missing answer
// asks again and expects the value on the next turn; an invalid one asks
// again without touching the session.
func (s *Service) fillSlot(slot numberSlot) HandlerFunc {
	return func(ctx context.Context, turn *Turn, reply *Reply) {
		value, ok := turn.Param(numberParam)
		if !ok {
			reply.Text(slot.question)
			reply.FollowUp("specify_"+feature.Get(slot.id).Name, followUpLifespan)
			return
		}

		if !slot.valid(value) {
			reply.Text(fmt.Sprintf(slot.invalid, value))
			return
		}

		if slot.confirm != "" {
			reply.Text(fmt.Sprintf(slot.confirm, value))
		}

		turn.Facts.SetOne(slot.id, value)
		s.predict(ctx, turn, reply, query.Override(slot.id, value))
	}
}
