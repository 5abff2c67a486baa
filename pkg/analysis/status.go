package analysis

import (
	"strings"

	"github.com/marek-kar/aihealth/pkg/model"
)

var (
	errorSignals   = []string{"failed", "missing"}
	warningSignals = []string{"warning", "empty"}
)

type Tally struct {
	Errors   int
	Warnings int
}

// Classify counts error and warning recommendations with two independent
// passes, so a recommendation carrying both kinds of signal counts in both.
func Classify(recommendations []string) Tally {
	var t Tally
	for _, rec := range recommendations {
		if containsAny(rec, errorSignals) {
			t.Errors++
		}
	}
	for _, rec := range recommendations {
		if containsAny(rec, warningSignals) {
			t.Warnings++
		}
	}
	return t
}

func (t Tally) Status() model.SystemStatus {
	switch {
	case t.Errors == 0 && t.Warnings == 0:
		return model.SystemExcellent
	case t.Errors == 0:
		return model.SystemGood
	default:
		return model.SystemNeedsAttention
	}
}

func SystemStatus(recommendations []string) model.SystemStatus {
	return Classify(recommendations).Status()
}

func containsAny(s string, signals []string) bool {
	lower := strings.ToLower(s)
	for _, sig := range signals {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}
