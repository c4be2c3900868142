package assessment

import (
	"math"
	"time"
)

// RetakeInterval is the minimum recommended gap between two attempts of the
// same instrument.
const RetakeInterval = 7 * 24 * time.Hour

// ScoreBook keeps per-instrument responses, the previous total and the start
// timestamp of the last attempt. It lives only as long as its session.
type ScoreBook struct {
	Responses map[Kind][]int     `json:"responses"`
	Previous  map[Kind]int       `json:"previous"`
	StartedAt map[Kind]time.Time `json:"startedAt"`
}

// NewScoreBook returns an empty book.
func NewScoreBook() ScoreBook {
	return ScoreBook{
		Responses: make(map[Kind][]int),
		Previous:  make(map[Kind]int),
		StartedAt: make(map[Kind]time.Time),
	}
}

// Begin clears the response list for kind and records the start time.
func (b *ScoreBook) Begin(kind Kind, now time.Time) {
	b.Responses[kind] = []int{}
	b.StartedAt[kind] = now
}

// Record appends a rating for kind.
func (b *ScoreBook) Record(kind Kind, rating int) {
	b.Responses[kind] = append(b.Responses[kind], rating)
}

// Complete scores kind, compares it with the previous total and then
// overwrites the previous slot, so only the immediately prior attempt is
// ever comparable.
func (b *ScoreBook) Complete(kind Kind) Result {
	var previous *int
	if p, ok := b.Previous[kind]; ok {
		previous = &p
	}
	res := Score(kind, b.Responses[kind], previous)
	b.Previous[kind] = res.Total
	return res
}

// Gate is the outcome of a re-take check.
type Gate struct {
	Blocked bool
	// DaysSince is the elapsed time rounded up to whole days.
	DaysSince int
}

// CheckRetake reports whether kind was started less than RetakeInterval ago.
func (b *ScoreBook) CheckRetake(kind Kind, now time.Time) Gate {
	last, ok := b.StartedAt[kind]
	if !ok {
		return Gate{}
	}
	elapsed := now.Sub(last)
	if elapsed >= RetakeInterval {
		return Gate{}
	}
	days := int(math.Ceil(elapsed.Hours() / 24))
	return Gate{Blocked: true, DaysSince: days}
}

// Clear drops every stored value.
func (b *ScoreBook) Clear() {
	*b = NewScoreBook()
}
