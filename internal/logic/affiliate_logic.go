package logic

import (
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strings"

	"github.com/blues/ams/internal/logger"
	"github.com/blues/ams/internal/model"
	"gorm.io/gorm"
)

// fallbackMarketplaceURL 市场地址未配置或不可解析时的兜底域名
const fallbackMarketplaceURL = "https://marketplace.example.com"

// AffiliateLogic 推广伙伴业务逻辑
type AffiliateLogic struct {
	db *gorm.DB
}

// NewAffiliateLogic 创建推广伙伴业务逻辑
func NewAffiliateLogic(db *gorm.DB) *AffiliateLogic {
	return &AffiliateLogic{db: db}
}

// AffiliateSummary 伙伴读取时派生的统计量，不落库
type AffiliateSummary struct {
	TotalReferrals int64   `json:"total_referrals"`
	TotalEarnings  float64 `json:"total_earnings"`
}

// CreateAffiliate 创建伙伴并生成推广码与推广链接
func (a *AffiliateLogic) CreateAffiliate(affiliate *model.AffiliateModel) error {
	if err := a.validateAffiliate(affiliate); err != nil {
		return err
	}

	affiliate.Email = NormalizeEmail(affiliate.Email)

	// 验证所属计划
	var program model.ProgramModel
	if err := a.db.First(&program, affiliate.ProgramId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("所属计划不存在")
		}
		return err
	}

	// 邮箱唯一
	var count int64
	if err := a.db.Model(&model.AffiliateModel{}).Where("email = ?", affiliate.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("该邮箱已注册为推广伙伴")
	}

	// 推广码与链接创建时生成一次，之后保持稳定
	affiliate.ReferralCode = GenerateReferralCode(affiliate.Name)
	affiliate.ReferralLink = BuildReferralLink(a.marketplaceURL(), program.Type, affiliate.ReferralCode)

	if affiliate.Status == "" {
		affiliate.Status = model.AffiliateStatusPending
	}

	return a.db.Create(affiliate).Error
}

// GetAffiliates 获取伙伴列表
func (a *AffiliateLogic) GetAffiliates(status string, programId int64) ([]model.AffiliateModel, error) {
	var affiliates []model.AffiliateModel

	query := a.db.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if programId > 0 {
		query = query.Where("program_id = ?", programId)
	}
	if err := query.Find(&affiliates).Error; err != nil {
		return nil, fmt.Errorf("获取伙伴列表失败: %w", err)
	}

	return affiliates, nil
}

// GetAffiliate 获取伙伴详情
func (a *AffiliateLogic) GetAffiliate(id int64) (*model.AffiliateModel, error) {
	var affiliate model.AffiliateModel
	if err := a.db.First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("推广伙伴不存在")
		}
		return nil, fmt.Errorf("获取伙伴详情失败: %w", err)
	}

	return &affiliate, nil
}

// GetAffiliateSummary 派生伙伴的推荐数与累计佣金。
// 佣金只统计已通过审核且外部校验为green的推荐，奖励计划不计入。
func (a *AffiliateLogic) GetAffiliateSummary(id int64) (*AffiliateSummary, error) {
	var summary AffiliateSummary

	if err := a.db.Model(&model.ReferralModel{}).
		Where("affiliate_id = ?", id).
		Count(&summary.TotalReferrals).Error; err != nil {
		return nil, err
	}

	earnings, err := sumVerifiedEarnings(a.db, id)
	if err != nil {
		return nil, err
	}
	summary.TotalEarnings = earnings

	return &summary, nil
}

// UpdateAffiliate 更新伙伴字段，推广码与链接不在可更新范围内
func (a *AffiliateLogic) UpdateAffiliate(id int64, updates map[string]interface{}) error {
	var affiliate model.AffiliateModel
	if err := a.db.First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("推广伙伴不存在")
		}
		return err
	}

	if email, ok := updates["email"].(string); ok {
		updates["email"] = NormalizeEmail(email)
	}

	return a.db.Model(&affiliate).Updates(updates).Error
}

// DeleteAffiliate 删除伙伴并级联删除其推荐、点击、打款与奖励记录
func (a *AffiliateLogic) DeleteAffiliate(id int64) error {
	var affiliate model.AffiliateModel
	if err := a.db.First(&affiliate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("推广伙伴不存在")
		}
		return err
	}

	tx := a.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("affiliate_id = ?", id).Delete(&model.ReferralModel{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("affiliate_id = ?", id).Delete(&model.ReferralClickModel{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("affiliate_id = ?", id).Delete(&model.PayoutModel{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("affiliate_id = ?", id).Delete(&model.RewardModel{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&affiliate).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// RegenerateLinks 市场地址变更后批量重新生成所有伙伴的推广链接
func (a *AffiliateLogic) RegenerateLinks(baseURL string) (int, error) {
	var affiliates []model.AffiliateModel
	if err := a.db.Find(&affiliates).Error; err != nil {
		return 0, err
	}

	updated := 0
	for _, affiliate := range affiliates {
		var program model.ProgramModel
		if err := a.db.First(&program, affiliate.ProgramId).Error; err != nil {
			logger.Warn("Skipping link regeneration for affiliate %d: program %d not found", affiliate.Id, affiliate.ProgramId)
			continue
		}

		link := BuildReferralLink(baseURL, program.Type, affiliate.ReferralCode)
		if link == affiliate.ReferralLink {
			continue
		}

		if err := a.db.Model(&affiliate).Update("referral_link", link).Error; err != nil {
			logger.Error("Failed to update referral link for affiliate %d: %v", affiliate.Id, err)
			continue
		}
		updated++
	}

	return updated, nil
}

// marketplaceURL 读取运营配置中的市场地址
func (a *AffiliateLogic) marketplaceURL() string {
	var setting model.SettingModel
	if err := a.db.First(&setting).Error; err != nil {
		return ""
	}
	return setting.MarketplaceURL
}

// validateAffiliate 验证伙伴数据
func (a *AffiliateLogic) validateAffiliate(affiliate *model.AffiliateModel) error {
	if affiliate.Name == "" {
		return errors.New("伙伴名称不能为空")
	}
	if affiliate.Email == "" {
		return errors.New("伙伴邮箱不能为空")
	}
	if affiliate.ProgramId == 0 {
		return errors.New("必须指定所属计划")
	}
	return nil
}

// NormalizeEmail 邮箱统一小写去空白
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GenerateReferralCode 生成推广码：名称去空白转大写 + [0,999) 随机数
func GenerateReferralCode(name string) string {
	cleaned := strings.ToUpper(strings.Join(strings.Fields(name), ""))
	return fmt.Sprintf("%s%d", cleaned, rand.Intn(999))
}

// BuildReferralLink 生成推广链接，注册计划指向注册页，携带UTM参数
func BuildReferralLink(baseURL string, programType model.ProgramType, referralCode string) string {
	if baseURL == "" {
		baseURL = fallbackMarketplaceURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" {
		u, _ = url.Parse(fallbackMarketplaceURL)
	}

	if programType == model.ProgramTypeSignup {
		u.Path = strings.TrimRight(u.Path, "/") + "/signup"
	}

	query := u.Query()
	query.Set("utm_source", "affiliate")
	query.Set("utm_medium", "referral")
	query.Set("utm_campaign", referralCode)
	u.RawQuery = query.Encode()

	return u.String()
}
