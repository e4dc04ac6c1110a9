package controllers

import (
	"testing"

	"smartshala_go/models"
)

func TestToMarkView(t *testing.T) {
	tests := []struct {
		name  string
		marks float64
		total float64
		pct   float64
		grade string
	}{
		{"full marks", 50, 50, 100, "A+"},
		{"passing", 33, 50, 66, "C"},
		{"failing", 10, 50, 20, "F"},
		{"zero total", 10, 0, 0, "F"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			v := toMarkView(models.Mark{Marks: tc.marks, TotalMarks: tc.total})
			if v.Percentage != tc.pct {
				t.Fatalf("expected %v%%, got %v%%", tc.pct, v.Percentage)
			}
			if v.Grade != tc.grade {
				t.Fatalf("expected grade %q, got %q", tc.grade, v.Grade)
			}
		})
	}
}
