// ABOUTME: Tests for CRM data models
// ABOUTME: Validates the stage table, stage moves, and Amount JSON encoding
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbabilityForStage(t *testing.T) {
	expected := map[string]int{
		"New Lead":       5,
		"Qualified":      15,
		"NDA Sent":       25,
		"NDA Signed":     30,
		"Info Shared":    40,
		"Negotiation":    70,
		"Mandate Signed": 100,
		"Closed Lost":    0,
	}

	for stage, want := range expected {
		if got := ProbabilityForStage(stage); got != want {
			t.Errorf("ProbabilityForStage(%q) = %d, want %d", stage, got, want)
		}
	}
}

func TestProbabilityForUnknownStage(t *testing.T) {
	for _, stage := range []string{"", "new lead", "Due Diligence", "Closed Won", "Qualified "} {
		if got := ProbabilityForStage(stage); got != 0 {
			t.Errorf("ProbabilityForStage(%q) = %d, want 0", stage, got)
		}
		if IsKnownStage(stage) {
			t.Errorf("IsKnownStage(%q) = true", stage)
		}
	}
}

func TestStagesOrder(t *testing.T) {
	stages := Stages()
	require.Len(t, stages, 8)
	assert.Equal(t, StageNewLead, stages[0])
	assert.Equal(t, StageClosedLost, stages[7])

	for i, stage := range stages {
		assert.Equal(t, i, StageIndex(stage))
		assert.True(t, IsKnownStage(stage))
	}
	assert.Equal(t, -1, StageIndex("Due Diligence"))

	// Callers get a copy.
	stages[0] = "mutated"
	assert.Equal(t, StageNewLead, Stages()[0])
}

func TestDealSetStage(t *testing.T) {
	deal := &Deal{Stage: StageNewLead, ProbabilityPct: 5}

	deal.SetStage(StageNegotiation)
	assert.Equal(t, StageNegotiation, deal.Stage)
	assert.Equal(t, 70, deal.ProbabilityPct)

	deal.SetStage("Parked")
	assert.Equal(t, 0, deal.ProbabilityPct)
}

func TestDealWeightedEV(t *testing.T) {
	deal := &Deal{EVMin: NewAmount(1_000_000), EVMax: NewAmount(5_000_000)}
	deal.SetStage(StageInfoShared)

	// midpoint 3M at 40%
	assert.Equal(t, "1200000", deal.WeightedEV().String())
}

func TestAmountJSON(t *testing.T) {
	a, err := ParseAmount("1500000.25")
	require.NoError(t, err)

	data, err := json.Marshal(struct {
		EV Amount `json:"ev"`
	}{a})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ev": 1500000.25}`, string(data))

	var decoded struct {
		EV Amount `json:"ev"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, a.Equal(decoded.EV.Decimal))

	_, err = ParseAmount("lots")
	assert.Error(t, err)
}
