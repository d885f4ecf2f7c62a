package pipeline

import "codeberg.org/mutker/marketintel/internal/errors"

// Stage names one pipeline entry point.
type Stage string

const (
	StageMarket  Stage = "market"
	StageVendors Stage = "vendors"
	StageContext Stage = "context"
	StageBuild   Stage = "build"
	StageRun     Stage = "run"
)

var runOrder = []Stage{StageMarket, StageVendors, StageContext, StageBuild}

// Stages returns every stage that can be run, in execution order.
func Stages() []Stage {
	return append(append([]Stage(nil), runOrder...), StageRun)
}

func ParseStage(s string) (Stage, error) {
	for _, stage := range Stages() {
		if string(stage) == s {
			return stage, nil
		}
	}
	return "", errors.New().WithData(ErrUnknownStage, struct {
		Stage string
	}{s})
}

// expand returns the stages that running s executes.
func (s Stage) expand() []Stage {
	if s == StageRun {
		return append([]Stage(nil), runOrder...)
	}
	return []Stage{s}
}
