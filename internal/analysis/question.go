package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// Question identifies one of the fixed analyses.
type Question int

const (
	MeanFinishTime Question = iota + 1
	MedianAge
	TopForeignCountry
	WomenCount
	WomenTrend
	HomeTrend
)

var questionNames = map[Question]string{
	MeanFinishTime:    "mean-time",
	MedianAge:         "median-age",
	TopForeignCountry: "top-country",
	WomenCount:        "women-count",
	WomenTrend:        "women-trend",
	HomeTrend:         "home-trend",
}

// AllQuestions returns every question in report order.
func AllQuestions() []Question {
	return []Question{MeanFinishTime, MedianAge, TopForeignCountry, WomenCount, WomenTrend, HomeTrend}
}

func (q Question) String() string {
	if n, ok := questionNames[q]; ok {
		return n
	}
	return fmt.Sprintf("question(%d)", int(q))
}

// ParseQuestion accepts a question number ("3") or name ("top-country").
func ParseQuestion(s string) (Question, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		q := Question(n)
		if _, ok := questionNames[q]; ok {
			return q, nil
		}
		return 0, fmt.Errorf("unknown question: %s (use 1-%d)", s, len(questionNames))
	}
	for q, name := range questionNames {
		if name == s {
			return q, nil
		}
	}
	return 0, fmt.Errorf("unknown question: %s", s)
}
