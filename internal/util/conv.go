package util

import (
	"encoding/json"
	"strconv"
	"strings"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	return uint(id)
}

// ParseInt returns the integer in s and whether it parsed.
func ParseInt(s string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return v, true
}

// FlexString decodes a JSON string or number as text. Any other JSON value
// (object, array, bool, null) decodes to the empty string instead of failing,
// so one malformed field never rejects a whole form.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}
	*f = ""
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Int parses the value as an integer.
func (f FlexString) Int() (int, bool) {
	return ParseInt(string(f))
}

// IntOrZero parses the value as an integer, returning 0 when it is not one.
func (f FlexString) IntOrZero() int {
	v, _ := f.Int()
	return v
}
