package services

import (
	"testing"

	"github.com/civicdesk/backend/internal/models"
)

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		description string
		score       int
	}{
		{"There is a fire and an accident on the bridge", 10},
		{"garbage piling up", 1},
		{"Large pothole causing accident risk on the road", 7},
		{"water bill dispute", 0},
		{"ROADSIDE light broken", 2}, // substring match, case-insensitive
		{"road road road", 2},        // each keyword counts once
		{"gas leak near the garbage dump", 3},
	}

	for _, tt := range tests {
		if got := PriorityScore(tt.description); got != tt.score {
			t.Errorf("PriorityScore(%q) = %d, want %d", tt.description, got, tt.score)
		}
	}
}

func TestDerivePriority(t *testing.T) {
	tests := []struct {
		description string
		priority    models.ComplaintPriority
	}{
		{"fire and accident near school", models.PriorityHigh},                   // 5 + 5 = 10
		{"Large pothole causing accident risk on the road", models.PriorityHigh}, // 2 + 5 = 7, boundary
		{"dangerous open manhole", models.PriorityMedium},                        // danger = 4
		{"gas leak behind the market", models.PriorityLow},                       // leak = 2
		{"garbage not collected", models.PriorityLow},                            // garbage = 1
		{"streetlight flickering at night", models.PriorityLow},                  // no keywords
	}

	for _, tt := range tests {
		if got := DerivePriority(tt.description); got != tt.priority {
			t.Errorf("DerivePriority(%q) = %s, want %s", tt.description, got, tt.priority)
		}
	}
}
