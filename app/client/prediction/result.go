package prediction

import (
	"fmt"
	"strconv"
)

const (
	coinThreshold    = 0.4
	surviveThreshold = 0.6
)

type Band int

const (
	BandDied Band = iota
	BandCoin
	BandSurvived
)

func (b Band) String() string {
	switch b {
	case BandDied:
		return "died"
	case BandCoin:
		return "coin"
	case BandSurvived:
		return "survived"
	default:
		return fmt.Sprintf("band(%d)", int(b))
	}
}

type Result struct {
	Probability float64
}

func Classify(probability float64) Band {
	switch {
	case probability < coinThreshold:
		return BandDied
	case probability < surviveThreshold:
		return BandCoin
	default:
		return BandSurvived
	}
}

func (r Result) Band() Band {
	return Classify(r.Probability)
}

func (r Result) Message() string {
	p := strconv.FormatFloat(r.Probability, 'f', -1, 64)

	switch r.Band() {
	case BandDied:
		return "I'm sorry. It looks like you would've died on Titanic. Your chance of survival equals " + p
	case BandCoin:
		return "Your chance of survival equals " + p + ". It's close to a toss of a coin!"
	default:
		return "Good news! You would've survived the disaster. Your chance of survival equals " + p
	}
}
