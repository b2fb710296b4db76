package logic

import (
	"errors"
	"fmt"

	"github.com/blues/ams/internal/model"
	"gorm.io/gorm"
)

// ProgramLogic 佣金计划业务逻辑
type ProgramLogic struct {
	db *gorm.DB
}

// NewProgramLogic 创建佣金计划业务逻辑
func NewProgramLogic(db *gorm.DB) *ProgramLogic {
	return &ProgramLogic{db: db}
}

// CreateProgram 创建佣金计划
func (p *ProgramLogic) CreateProgram(program *model.ProgramModel) error {
	if err := p.validateProgram(program); err != nil {
		return err
	}

	if program.Status == "" {
		program.Status = model.ProgramStatusActive
	}

	if err := p.db.Create(program).Error; err != nil {
		return err
	}

	return nil
}

// GetPrograms 获取计划列表
func (p *ProgramLogic) GetPrograms(status string) ([]model.ProgramModel, error) {
	var programs []model.ProgramModel

	query := p.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&programs).Error; err != nil {
		return nil, fmt.Errorf("获取计划列表失败: %w", err)
	}

	return programs, nil
}

// GetProgram 获取计划详情
func (p *ProgramLogic) GetProgram(id int64) (*model.ProgramModel, error) {
	var program model.ProgramModel
	if err := p.db.First(&program, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("计划不存在")
		}
		return nil, fmt.Errorf("获取计划详情失败: %w", err)
	}

	return &program, nil
}

// UpdateProgram 更新计划字段
func (p *ProgramLogic) UpdateProgram(id int64, updates map[string]interface{}) error {
	var program model.ProgramModel
	if err := p.db.First(&program, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("计划不存在")
		}
		return err
	}

	return p.db.Model(&program).Updates(updates).Error
}

// DeleteProgram 删除计划，有伙伴引用时禁止删除
func (p *ProgramLogic) DeleteProgram(id int64) error {
	var count int64
	if err := p.db.Model(&model.AffiliateModel{}).Where("program_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("仍有 %d 个推广伙伴使用该计划，无法删除", count)
	}

	return p.db.Delete(&model.ProgramModel{}, id).Error
}

// validateProgram 验证计划数据
func (p *ProgramLogic) validateProgram(program *model.ProgramModel) error {
	if program.Name == "" {
		return errors.New("计划名称不能为空")
	}

	switch program.Type {
	case model.ProgramTypeSignup, model.ProgramTypePurchase, model.ProgramTypeReward:
	default:
		return errors.New("计划类型无效")
	}

	switch program.CommissionType {
	case model.CommissionTypeFixed, model.CommissionTypePercentage:
	default:
		return errors.New("佣金类型无效")
	}

	// 注册计划按次发放固定佣金，不支持百分比
	if program.Type == model.ProgramTypeSignup && program.CommissionType == model.CommissionTypePercentage {
		return errors.New("注册计划只支持固定佣金")
	}

	if program.Type != model.ProgramTypeReward && program.Commission <= 0 {
		return errors.New("佣金金额必须大于0")
	}

	if program.Type == model.ProgramTypeReward && program.ReferralTarget <= 0 {
		return errors.New("奖励计划必须设置达标人数")
	}

	return nil
}
