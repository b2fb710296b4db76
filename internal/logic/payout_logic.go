package logic

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/blues/ams/internal/model"
	"gorm.io/gorm"
)

// maxPayoutReferenceLen 打款备注长度上限
const maxPayoutReferenceLen = 18

// PayoutLogic 结算打款业务逻辑
type PayoutLogic struct {
	db *gorm.DB
}

// NewPayoutLogic 创建结算打款业务逻辑
func NewPayoutLogic(db *gorm.DB) *PayoutLogic {
	return &PayoutLogic{db: db}
}

// Balance 伙伴结算余额，每次读取时从推荐记录重新派生
type Balance struct {
	AffiliateId int64   `json:"affiliate_id"`
	Earnings    float64 `json:"earnings"`
	Paid        float64 `json:"paid"`
	Outstanding float64 `json:"outstanding"`
}

// GetBalance 计算伙伴的应得佣金、已付金额与未付余额
func (p *PayoutLogic) GetBalance(affiliateId int64) (*Balance, error) {
	var affiliate model.AffiliateModel
	if err := p.db.First(&affiliate, affiliateId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("推广伙伴不存在")
		}
		return nil, err
	}

	earnings, err := sumVerifiedEarnings(p.db, affiliateId)
	if err != nil {
		return nil, fmt.Errorf("计算应得佣金失败: %w", err)
	}

	var paid float64
	if err := p.db.Model(&model.PayoutModel{}).
		Where("affiliate_id = ?", affiliateId).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paid).Error; err != nil {
		return nil, fmt.Errorf("计算已付金额失败: %w", err)
	}

	return &Balance{
		AffiliateId: affiliateId,
		Earnings:    earnings,
		Paid:        paid,
		Outstanding: computeOutstanding(earnings, paid),
	}, nil
}

// CreatePayout 创建打款记录，金额不得超过当前未付余额
func (p *PayoutLogic) CreatePayout(payout *model.PayoutModel) error {
	balance, err := p.GetBalance(payout.AffiliateId)
	if err != nil {
		return err
	}

	if err := validatePayoutRequest(payout.Amount, balance.Outstanding, payout.Reference); err != nil {
		return err
	}

	now := time.Now()
	payout.Status = "paid"
	payout.PaidAt = &now

	return p.db.Create(payout).Error
}

// GetPayouts 获取打款记录列表
func (p *PayoutLogic) GetPayouts(affiliateId int64) ([]model.PayoutModel, error) {
	var payouts []model.PayoutModel

	query := p.db.Order("created_at DESC")
	if affiliateId > 0 {
		query = query.Where("affiliate_id = ?", affiliateId)
	}
	if err := query.Find(&payouts).Error; err != nil {
		return nil, fmt.Errorf("获取打款记录失败: %w", err)
	}

	return payouts, nil
}

// sumVerifiedEarnings 汇总已通过审核且外部校验为green的佣金，
// 奖励计划只计数不计钱，显式排除。
func sumVerifiedEarnings(db *gorm.DB, affiliateId int64) (float64, error) {
	var earnings float64
	err := db.Raw(`
		SELECT COALESCE(SUM(r.commission), 0)
		FROM referral r
		JOIN affiliate a ON a.id = r.affiliate_id
		JOIN program p ON p.id = a.program_id
		WHERE r.affiliate_id = ?
		  AND r.status = ?
		  AND r.validation_status = ?
		  AND p.type <> ?
	`, affiliateId, model.ReferralStatusApproved, model.ValidationStatusGreen, model.ProgramTypeReward).
		Scan(&earnings).Error

	return earnings, err
}

// computeOutstanding 未付余额不为负
func computeOutstanding(earnings, paid float64) float64 {
	outstanding := earnings - paid
	if outstanding < 0 {
		return 0
	}
	return outstanding
}

// validatePayoutRequest 校验打款请求
func validatePayoutRequest(amount, outstanding float64, reference string) error {
	if amount <= 0 {
		return errors.New("打款金额必须大于0")
	}
	if amount > outstanding {
		return fmt.Errorf("打款金额超过未付余额 %.2f", outstanding)
	}
	if utf8.RuneCountInString(reference) > maxPayoutReferenceLen {
		return fmt.Errorf("打款备注不能超过%d个字符", maxPayoutReferenceLen)
	}
	return nil
}
