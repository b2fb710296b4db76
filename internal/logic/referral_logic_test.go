package logic

import (
	"testing"
	"time"
)

func TestWithinMatchWindow(t *testing.T) {
	signupAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		clickedAt time.Time
		want      bool
	}{
		{name: "click just before signup", clickedAt: signupAt.Add(-10 * time.Minute), want: true},
		{name: "click exactly one hour before", clickedAt: signupAt.Add(-time.Hour), want: true},
		{name: "click over one hour before", clickedAt: signupAt.Add(-61 * time.Minute), want: false},
		{name: "click shortly after signup timestamp", clickedAt: signupAt.Add(5 * time.Minute), want: true},
		{name: "click a day earlier", clickedAt: signupAt.Add(-24 * time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := withinMatchWindow(tt.clickedAt, signupAt); got != tt.want {
				t.Errorf("withinMatchWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}
