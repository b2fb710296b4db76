package logic

import (
	"testing"

	"github.com/blues/ams/internal/model"
	"github.com/blues/ams/internal/sharetribe"
)

func TestResolveValidationStatus(t *testing.T) {
	tests := []struct {
		name string
		user *sharetribe.User
		want model.ValidationStatus
	}{
		{
			name: "missing user is red",
			user: nil,
			want: model.ValidationStatusRed,
		},
		{
			name: "unverified email is amber",
			user: &sharetribe.User{ID: "u-1", Email: "jane@example.com", EmailVerified: false},
			want: model.ValidationStatusAmber,
		},
		{
			name: "verified email is green",
			user: &sharetribe.User{ID: "u-2", Email: "jane@example.com", EmailVerified: true},
			want: model.ValidationStatusGreen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveValidationStatus(tt.user); got != tt.want {
				t.Errorf("ResolveValidationStatus() = %v, want %v", got, tt.want)
			}
		})
	}
}
