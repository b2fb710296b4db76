package logic

import (
	"errors"
	"math"
	"testing"

	"github.com/blues/ams/internal/model"
)

func TestCalculateCommission(t *testing.T) {
	tests := []struct {
		name    string
		program model.ProgramModel
		value   float64
		want    float64
		wantErr error
	}{
		{
			name: "fixed commission ignores transaction value",
			program: model.ProgramModel{
				Type:           model.ProgramTypeSignup,
				Commission:     25,
				CommissionType: model.CommissionTypeFixed,
			},
			value: 9999,
			want:  25,
		},
		{
			name: "percentage commission on purchase value",
			program: model.ProgramModel{
				Type:           model.ProgramTypePurchase,
				Commission:     10,
				CommissionType: model.CommissionTypePercentage,
			},
			value: 200,
			want:  20,
		},
		{
			name: "percentage commission on second purchase",
			program: model.ProgramModel{
				Type:           model.ProgramTypePurchase,
				Commission:     10,
				CommissionType: model.CommissionTypePercentage,
			},
			value: 50,
			want:  5,
		},
		{
			name: "percentage without transaction value is rejected",
			program: model.ProgramModel{
				Type:           model.ProgramTypePurchase,
				Commission:     10,
				CommissionType: model.CommissionTypePercentage,
			},
			value:   0,
			wantErr: ErrMissingValue,
		},
		{
			name: "reward program never produces monetary commission",
			program: model.ProgramModel{
				Type:           model.ProgramTypeReward,
				Commission:     100,
				CommissionType: model.CommissionTypeFixed,
			},
			value: 500,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateCommission(&tt.program, tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CalculateCommission() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CalculateCommission() unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CalculateCommission() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalculateCommissionUnknownType(t *testing.T) {
	program := model.ProgramModel{
		Type:           model.ProgramTypePurchase,
		Commission:     10,
		CommissionType: "lottery",
	}

	if _, err := CalculateCommission(&program, 100); err == nil {
		t.Fatal("CalculateCommission() expected error for unknown commission type")
	}
}
