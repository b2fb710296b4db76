package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/ams/internal/logger"
	"github.com/blues/ams/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// clickMatchWindow 点击与注册时间的匹配窗口
const clickMatchWindow = time.Hour

// clickExpiry 未匹配点击的保留时长
const clickExpiry = 24 * time.Hour

// ReferralLogic 推荐归因业务逻辑
type ReferralLogic struct {
	db *gorm.DB
}

// NewReferralLogic 创建推荐归因业务逻辑
func NewReferralLogic(db *gorm.DB) *ReferralLogic {
	return &ReferralLogic{db: db}
}

// TrackEventInput 入站事件，webhook与直连API共用同一结构
type TrackEventInput struct {
	EventName     string  // sign_up | purchase
	UTMSource     string
	UTMMedium     string
	UTMCampaign   string // 即推广码
	CustomerEmail string
	CustomerName  string
	TransactionId string
	Value         float64
	Currency      string
	SessionToken  string
}

// TrackEvent 将入站事件归因到唯一的伙伴与推荐记录
func (r *ReferralLogic) TrackEvent(input TrackEventInput) (*model.ReferralModel, error) {
	if input.UTMSource != "affiliate" {
		return nil, ErrEventIgnored
	}
	if input.UTMCampaign == "" {
		return nil, ErrCodeNotFound
	}

	// 按推广码精确匹配伙伴
	var affiliate model.AffiliateModel
	if err := r.db.Where("referral_code = ?", input.UTMCampaign).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	if affiliate.Status != model.AffiliateStatusActive {
		return nil, ErrAffiliateInactive
	}

	var program model.ProgramModel
	if err := r.db.First(&program, affiliate.ProgramId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramInactive
		}
		return nil, err
	}
	if program.Status != model.ProgramStatusActive {
		return nil, ErrProgramInactive
	}

	email := NormalizeEmail(input.CustomerEmail)
	if email == "" {
		return nil, ErrMissingEmail
	}

	switch input.EventName {
	case "sign_up":
		return r.trackSignup(&affiliate, &program, email, input)
	case "purchase":
		return r.trackPurchase(&affiliate, &program, email, input)
	default:
		return nil, fmt.Errorf("未知的事件类型: %s", input.EventName)
	}
}

// trackSignup 处理注册事件：创建推荐记录并尝试回溯匹配点击
func (r *ReferralLogic) trackSignup(affiliate *model.AffiliateModel, program *model.ProgramModel, email string, input TrackEventInput) (*model.ReferralModel, error) {
	if exists, err := r.referralExists(affiliate.Id, email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicateCustomer
	}

	commission := float64(0)
	status := model.ReferralStatusPending
	if program.Type == model.ProgramTypeSignup {
		// 注册计划按次发放固定佣金并自动通过审核
		c, err := CalculateCommission(program, 0)
		if err != nil {
			return nil, err
		}
		commission = c
		status = model.ReferralStatusApproved
	}

	referral := &model.ReferralModel{
		AffiliateId:   affiliate.Id,
		CustomerEmail: email,
		CustomerName:  input.CustomerName,
		Status:        status,
		Commission:    commission,
	}

	if err := r.db.Create(referral).Error; err != nil {
		// 并发写入同一客户时由唯一索引兜底
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateCustomer
		}
		return nil, err
	}

	// 点击匹配只做事后补充，失败不影响归因结果
	r.correlateClick(referral, input.UTMCampaign, input.SessionToken)

	return referral, nil
}

// trackPurchase 处理购买事件：累加营收与佣金。
// 没有前置注册推荐时直接新建一条待审核记录（策略见 DESIGN.md）。
func (r *ReferralLogic) trackPurchase(affiliate *model.AffiliateModel, program *model.ProgramModel, email string, input TrackEventInput) (*model.ReferralModel, error) {
	commission, err := CalculateCommission(program, input.Value)
	if err != nil {
		return nil, err
	}

	var referral model.ReferralModel
	err = r.db.Where("affiliate_id = ? AND customer_email = ?", affiliate.Id, email).First(&referral).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		referral = model.ReferralModel{
			AffiliateId:   affiliate.Id,
			CustomerEmail: email,
			CustomerName:  input.CustomerName,
			Status:        model.ReferralStatusPending,
		}
		if err := r.db.Create(&referral).Error; err != nil {
			if !isDuplicateKeyError(err) {
				return nil, err
			}
			// 并发创建输掉竞争时改用已存在的记录继续累加，营收不能丢
			if err := r.db.Where("affiliate_id = ? AND customer_email = ?", affiliate.Id, email).
				First(&referral).Error; err != nil {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"commission":         gorm.Expr("commission + ?", commission),
		"total_revenue":      gorm.Expr("total_revenue + ?", input.Value),
		"transactions_count": gorm.Expr("transactions_count + 1"),
	}
	if err := r.db.Model(&referral).Updates(updates).Error; err != nil {
		return nil, err
	}

	return r.getReferral(referral.Id)
}

// TrackClick 记录一次匿名点击，等待后续注册匹配
func (r *ReferralLogic) TrackClick(referralCode, sessionToken string) (*model.ReferralClickModel, error) {
	if referralCode == "" {
		return nil, ErrCodeNotFound
	}

	var affiliate model.AffiliateModel
	if err := r.db.Where("referral_code = ?", referralCode).First(&affiliate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}

	if sessionToken == "" {
		sessionToken = uuid.NewString()
	}

	click := &model.ReferralClickModel{
		AffiliateId:  affiliate.Id,
		ReferralCode: referralCode,
		SessionToken: sessionToken,
		Status:       model.ClickStatusPendingMatch,
		ClickedAt:    time.Now(),
	}
	if err := r.db.Create(click).Error; err != nil {
		return nil, err
	}

	return click, nil
}

// correlateClick 在时间窗口内回溯匹配最近的待匹配点击
func (r *ReferralLogic) correlateClick(referral *model.ReferralModel, referralCode, sessionToken string) {
	query := r.db.Where("status = ?", model.ClickStatusPendingMatch)
	if sessionToken != "" {
		query = query.Where("referral_code = ? OR session_token = ?", referralCode, sessionToken)
	} else {
		query = query.Where("referral_code = ?", referralCode)
	}

	var click model.ReferralClickModel
	if err := query.Order("clicked_at DESC").First(&click).Error; err != nil {
		return
	}

	if !withinMatchWindow(click.ClickedAt, referral.CreatedAt) {
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":              model.ClickStatusMatched,
		"matched_referral_id": referral.Id,
		"matched_at":          &now,
	}
	if err := r.db.Model(&click).Updates(updates).Error; err != nil {
		logger.Error("Failed to mark click %d as matched: %v", click.Id, err)
		return
	}

	logger.Info("Matched click %d to referral %d", click.Id, referral.Id)
}

// ExpireStaleClicks 将超时未匹配的点击标记为过期
func (r *ReferralLogic) ExpireStaleClicks() (int64, error) {
	cutoff := time.Now().Add(-clickExpiry)
	result := r.db.Model(&model.ReferralClickModel{}).
		Where("status = ? AND clicked_at < ?", model.ClickStatusPendingMatch, cutoff).
		Update("status", model.ClickStatusExpired)
	return result.RowsAffected, result.Error
}

// GetReferrals 获取推荐记录列表
func (r *ReferralLogic) GetReferrals(affiliateId int64, status string, page, pageSize int) ([]model.ReferralModel, int64, error) {
	var referrals []model.ReferralModel
	var total int64

	query := r.db.Model(&model.ReferralModel{})
	if affiliateId > 0 {
		query = query.Where("affiliate_id = ?", affiliateId)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&referrals).Error; err != nil {
		return nil, 0, err
	}

	return referrals, total, nil
}

// UpdateReferralStatus 运营审核推荐记录
func (r *ReferralLogic) UpdateReferralStatus(id int64, status model.ReferralStatus) error {
	referral, err := r.getReferral(id)
	if err != nil {
		return err
	}
	return r.db.Model(referral).Update("status", status).Error
}

// getReferral 获取推荐记录
func (r *ReferralLogic) getReferral(id int64) (*model.ReferralModel, error) {
	var referral model.ReferralModel
	if err := r.db.First(&referral, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("推荐记录不存在")
		}
		return nil, err
	}
	return &referral, nil
}

// referralExists 判断同一伙伴是否已追踪该客户
func (r *ReferralLogic) referralExists(affiliateId int64, email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.ReferralModel{}).
		Where("affiliate_id = ? AND customer_email = ?", affiliateId, email).
		Count(&count).Error
	return count > 0, err
}

// withinMatchWindow 判断点击时间是否落在注册时间的匹配窗口内
func withinMatchWindow(clickedAt, signupAt time.Time) bool {
	diff := signupAt.Sub(clickedAt)
	if diff < 0 {
		diff = -diff
	}
	return diff <= clickMatchWindow
}

// isDuplicateKeyError 识别唯一索引冲突
func isDuplicateKeyError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
