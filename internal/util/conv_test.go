package util

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexString_Unmarshal(t *testing.T) {
	var payload struct {
		Answers map[string]FlexString `json:"answers"`
	}
	raw := `{"answers":{"1":"12","2":13,"3":" paris ","4":null,"5":[1,2],"6":{"a":1},"7":true,"8":4.5}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	assert.Equal(t, FlexString("12"), payload.Answers["1"])
	assert.Equal(t, FlexString("13"), payload.Answers["2"])
	assert.Equal(t, FlexString(" paris "), payload.Answers["3"])
	assert.Equal(t, FlexString(""), payload.Answers["4"])
	assert.Equal(t, FlexString(""), payload.Answers["5"])
	assert.Equal(t, FlexString(""), payload.Answers["6"])
	assert.Equal(t, FlexString(""), payload.Answers["7"])
	assert.Equal(t, FlexString("4.5"), payload.Answers["8"])
}

func TestFlexString_Int(t *testing.T) {
	v, ok := FlexString(" 42 ").Int()
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = FlexString("4.5").Int()
	assert.False(t, ok)
	assert.Equal(t, 0, FlexString("abc").IntOrZero())
	assert.Equal(t, -7, FlexString("-7").IntOrZero())
}

func TestMustParseUint(t *testing.T) {
	assert.Equal(t, uint(15), MustParseUint("15"))
	assert.Equal(t, uint(0), MustParseUint("x"))
	assert.Equal(t, uint(0), MustParseUint("-3"))
}
