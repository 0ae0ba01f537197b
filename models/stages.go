// ABOUTME: Deal pipeline stages and their win probabilities
// ABOUTME: Fixed stage order plus the stage to probability lookup table
package models

// Pipeline stages, in pipeline order.
const (
	StageNewLead       = "New Lead"
	StageQualified     = "Qualified"
	StageNDASent       = "NDA Sent"
	StageNDASigned     = "NDA Signed"
	StageInfoShared    = "Info Shared"
	StageNegotiation   = "Negotiation"
	StageMandateSigned = "Mandate Signed"
	StageClosedLost    = "Closed Lost"
)

var stageOrder = []string{
	StageNewLead,
	StageQualified,
	StageNDASent,
	StageNDASigned,
	StageInfoShared,
	StageNegotiation,
	StageMandateSigned,
	StageClosedLost,
}

// stageProbability is read-only after init.
var stageProbability = map[string]int{
	StageNewLead:       5,
	StageQualified:     15,
	StageNDASent:       25,
	StageNDASigned:     30,
	StageInfoShared:    40,
	StageNegotiation:   70,
	StageMandateSigned: 100,
	StageClosedLost:    0,
}

// ProbabilityForStage returns the expected win probability (percent) for a
// pipeline stage. Stages outside the table resolve to 0.
func ProbabilityForStage(stage string) int {
	return stageProbability[stage]
}

// Stages returns the pipeline stages in order.
func Stages() []string {
	out := make([]string, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// IsKnownStage reports whether stage is one of the pipeline stages.
func IsKnownStage(stage string) bool {
	_, ok := stageProbability[stage]
	return ok
}

// StageIndex returns the position of stage in the pipeline, or -1.
func StageIndex(stage string) int {
	for i, s := range stageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}
