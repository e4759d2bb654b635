package plan

import (
	"testing"
	"time"
)

func TestPlan_EndFor(t *testing.T) {
	p := &Plan{DurationInDays: 30}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	want := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	if got := p.EndFor(start); !got.Equal(want) {
		t.Errorf("EndFor() = %v, want %v", got, want)
	}
}

func TestPlan_Grants(t *testing.T) {
	p := &Plan{TrainingIDs: []string{"nr-10", "nr-35"}}

	if !p.Grants("nr-35") {
		t.Error("Grants(nr-35) = false, want true")
	}
	if p.Grants("nr-12") {
		t.Error("Grants(nr-12) = true, want false")
	}
}
