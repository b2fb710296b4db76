package logic

import (
	"fmt"

	"github.com/blues/ams/internal/model"
)

// CalculateCommission 按计划规则计算单次动作产生的佣金。
// 奖励计划不产生货币佣金；百分比计划必须携带真实交易金额。
func CalculateCommission(program *model.ProgramModel, transactionValue float64) (float64, error) {
	if program.Type == model.ProgramTypeReward {
		return 0, nil
	}

	switch program.CommissionType {
	case model.CommissionTypeFixed:
		return program.Commission, nil
	case model.CommissionTypePercentage:
		if transactionValue <= 0 {
			return 0, ErrMissingValue
		}
		return transactionValue * program.Commission / 100, nil
	default:
		return 0, fmt.Errorf("未知的佣金类型: %s", program.CommissionType)
	}
}
