// Package grading scores test submissions and maps percentages to levels.
// It has no storage or HTTP dependencies; callers convert their records
// into the types declared here.
package grading

import "sort"

type Kind string

const (
	KindChoice Kind = "choice"
	KindOpen   Kind = "open"
)

type Option struct {
	ID        uint
	Order     int
	Text      string
	IsCorrect bool
}

// Body is the type-specific part of a question: Choice or Open.
type Body interface {
	Kind() Kind
	isBody()
}

// Choice is a multiple-choice question. Options are kept in presentation order.
type Choice struct {
	Options []Option
}

func (Choice) Kind() Kind { return KindChoice }
func (Choice) isBody()    {}

// Option returns the option with the given id, if it belongs to this question.
func (c Choice) Option(id uint) (Option, bool) {
	for _, o := range c.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Correct returns the first option flagged correct.
func (c Choice) Correct() (Option, bool) {
	for _, o := range c.Options {
		if o.IsCorrect {
			return o, true
		}
	}
	return Option{}, false
}

// Open is a free-text question graded by normalized exact match.
type Open struct {
	Canonical string
}

func (Open) Kind() Kind { return KindOpen }
func (Open) isBody()    {}

type Question struct {
	ID       uint
	Order    int
	Text     string
	ImageURL string
	Body     Body
}

// SortByOrder sorts questions and their options in place by ascending order.
func SortByOrder(qs []Question) {
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].Order < qs[j].Order })
	for i := range qs {
		if c, ok := qs[i].Body.(Choice); ok {
			sort.SliceStable(c.Options, func(a, b int) bool { return c.Options[a].Order < c.Options[b].Order })
		}
	}
}

// cloneQuestions copies qs deeply enough that SortByOrder on the copy leaves
// the caller's slices untouched.
func cloneQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	copy(out, qs)
	for i := range out {
		if c, ok := out[i].Body.(Choice); ok {
			opts := make([]Option, len(c.Options))
			copy(opts, c.Options)
			out[i].Body = Choice{Options: opts}
		}
	}
	return out
}
