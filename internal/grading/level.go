package grading

import (
	"math"
	"sort"
)

type Level struct {
	ID              uint
	Order           int
	Title           string
	MinPercent      int
	MaxPercent      int
	Description     string
	Recommendations string
}

func (l Level) Contains(p int) bool {
	return p >= l.MinPercent && p <= l.MaxPercent
}

// ResolveLevel maps percentage to a level. The percentage is rounded half to
// even, then matched against inclusive ranges in level order. When nothing
// matches, a rounded value <= 0 falls back to the first level and anything
// else to the last one. It returns nil only when levels is empty.
func ResolveLevel(levels []Level, percentage float64) *Level {
	if len(levels) == 0 {
		return nil
	}

	ordered := make([]Level, len(levels))
	copy(ordered, levels)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	p := int(math.RoundToEven(percentage))
	for i := range ordered {
		if ordered[i].Contains(p) {
			return &ordered[i]
		}
	}

	if p <= 0 {
		return &ordered[0]
	}
	return &ordered[len(ordered)-1]
}

// LevelSpec is one requested level. MaxPercent is nil when the submitted
// value was missing or not a number.
type LevelSpec struct {
	Title           string
	Description     string
	Recommendations string
	MaxPercent      *int
}

// BuildLevels derives a level partition from specs: the first level starts
// at 0, each following level starts one above the previous maximum, and the
// last level always ends at 100. A missing maximum on any other level is 0.
func BuildLevels(specs []LevelSpec) []Level {
	levels := make([]Level, 0, len(specs))
	prevMax := -1
	for i, spec := range specs {
		upper := 0
		if spec.MaxPercent != nil {
			upper = *spec.MaxPercent
		}
		if i == len(specs)-1 {
			upper = 100
		}
		levels = append(levels, Level{
			Order:           i + 1,
			Title:           spec.Title,
			Description:     spec.Description,
			Recommendations: spec.Recommendations,
			MinPercent:      prevMax + 1,
			MaxPercent:      upper,
		})
		prevMax = upper
	}
	return levels
}
