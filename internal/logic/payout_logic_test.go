package logic

import (
	"strings"
	"testing"
)

func TestComputeOutstanding(t *testing.T) {
	tests := []struct {
		name     string
		earnings float64
		paid     float64
		want     float64
	}{
		{name: "two verified referrals minus prior payout", earnings: 55, paid: 20, want: 35},
		{name: "nothing paid yet", earnings: 120, paid: 0, want: 120},
		{name: "overpaid never goes negative", earnings: 30, paid: 50, want: 0},
		{name: "no earnings", earnings: 0, paid: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeOutstanding(tt.earnings, tt.paid); got != tt.want {
				t.Errorf("computeOutstanding(%v, %v) = %v, want %v", tt.earnings, tt.paid, got, tt.want)
			}
		})
	}
}

func TestValidatePayoutRequest(t *testing.T) {
	tests := []struct {
		name        string
		amount      float64
		outstanding float64
		reference   string
		wantErr     bool
	}{
		{name: "valid payout", amount: 35, outstanding: 35, reference: "JUNE-SETTLE", wantErr: false},
		{name: "zero amount rejected", amount: 0, outstanding: 100, wantErr: true},
		{name: "negative amount rejected", amount: -5, outstanding: 100, wantErr: true},
		{name: "amount over outstanding rejected", amount: 36, outstanding: 35, wantErr: true},
		{name: "reference at limit accepted", amount: 10, outstanding: 100, reference: strings.Repeat("x", 18), wantErr: false},
		{name: "reference over limit rejected", amount: 10, outstanding: 100, reference: strings.Repeat("x", 19), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePayoutRequest(tt.amount, tt.outstanding, tt.reference)
			if (err != nil) != tt.wantErr {
				t.Errorf("validatePayoutRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
