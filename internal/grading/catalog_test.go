package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize_OrdersAndStripsAnswers(t *testing.T) {
	qs := sampleQuestions()
	view := Sanitize(7, "Geography", "warm-up", qs)

	assert.Equal(t, uint(7), view.ID)
	require.Len(t, view.Questions, 3)
	assert.Equal(t, []uint{1, 2, 3}, []uint{view.Questions[0].ID, view.Questions[1].ID, view.Questions[2].ID})

	assert.Equal(t, KindChoice, view.Questions[1].Type)
	require.Len(t, view.Questions[1].Options, 3)
	assert.Equal(t, "Mars", view.Questions[1].Options[0].Text)

	assert.Equal(t, KindOpen, view.Questions[2].Type)
	assert.Empty(t, view.Questions[2].Options)

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "is_correct")
	assert.NotContains(t, string(raw), "Paris")

	// input slice is left untouched
	assert.Equal(t, uint(3), qs[0].ID)
}

func TestSanitize_OptionOrder(t *testing.T) {
	qs := []Question{{ID: 1, Order: 1, Body: Choice{Options: []Option{
		{ID: 3, Order: 3, Text: "c"},
		{ID: 1, Order: 1, Text: "a"},
		{ID: 2, Order: 2, Text: "b"},
	}}}}

	view := Sanitize(1, "t", "", qs)
	opts := view.Questions[0].Options
	assert.Equal(t, []string{"a", "b", "c"}, []string{opts[0].Text, opts[1].Text, opts[2].Text})
	assert.Equal(t, uint(3), qs[0].Body.(Choice).Options[0].ID)
}
