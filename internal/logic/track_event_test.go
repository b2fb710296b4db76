package logic

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/blues/ams/internal/model"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.ProgramModel{},
		&model.AffiliateModel{},
		&model.ReferralModel{},
		&model.ReferralClickModel{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func seedAffiliate(t *testing.T, db *gorm.DB, programType model.ProgramType, commissionType model.CommissionType, commission float64) *model.AffiliateModel {
	t.Helper()

	program := &model.ProgramModel{
		Name:           "测试计划",
		Type:           programType,
		Commission:     commission,
		CommissionType: commissionType,
		Status:         model.ProgramStatusActive,
	}
	if err := db.Create(program).Error; err != nil {
		t.Fatalf("failed to seed program: %v", err)
	}

	affiliate := &model.AffiliateModel{
		Name:         "Jane",
		Email:        "jane@partner.example",
		ProgramId:    program.Id,
		ReferralCode: "JANE42",
		Status:       model.AffiliateStatusActive,
	}
	if err := db.Create(affiliate).Error; err != nil {
		t.Fatalf("failed to seed affiliate: %v", err)
	}

	return affiliate
}

func TestTrackEventDuplicateSignup(t *testing.T) {
	db := newTestDB(t)
	affiliate := seedAffiliate(t, db, model.ProgramTypeSignup, model.CommissionTypeFixed, 25)
	rl := NewReferralLogic(db)

	input := TrackEventInput{
		EventName:     "sign_up",
		UTMSource:     "affiliate",
		UTMCampaign:   affiliate.ReferralCode,
		CustomerEmail: "Customer@Example.com",
		CustomerName:  "Customer One",
	}

	first, err := rl.TrackEvent(input)
	if err != nil {
		t.Fatalf("TrackEvent() first signup unexpected error: %v", err)
	}
	if first.Status != model.ReferralStatusApproved {
		t.Errorf("first signup status = %q, want approved", first.Status)
	}
	if first.Commission != 25 {
		t.Errorf("first signup commission = %v, want 25", first.Commission)
	}

	// 同一(伙伴, 客户)的第二次注册必须被拒绝，且不得改动已有记录
	if _, err := rl.TrackEvent(input); !errors.Is(err, ErrDuplicateCustomer) {
		t.Fatalf("TrackEvent() second signup error = %v, want ErrDuplicateCustomer", err)
	}

	var rows []model.ReferralModel
	if err := db.Find(&rows).Error; err != nil {
		t.Fatalf("failed to load referrals: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("referral rows = %d, want 1", len(rows))
	}
	if rows[0].Commission != 25 || rows[0].Status != model.ReferralStatusApproved {
		t.Errorf("row changed after duplicate: commission=%v status=%q", rows[0].Commission, rows[0].Status)
	}
	if rows[0].CustomerEmail != "customer@example.com" {
		t.Errorf("customer email = %q, want lowercased customer@example.com", rows[0].CustomerEmail)
	}
}

func TestTrackEventPurchaseAccumulates(t *testing.T) {
	db := newTestDB(t)
	affiliate := seedAffiliate(t, db, model.ProgramTypePurchase, model.CommissionTypePercentage, 10)
	rl := NewReferralLogic(db)

	input := TrackEventInput{
		EventName:     "purchase",
		UTMSource:     "affiliate",
		UTMCampaign:   affiliate.ReferralCode,
		CustomerEmail: "customer@example.com",
		Value:         200,
	}

	first, err := rl.TrackEvent(input)
	if err != nil {
		t.Fatalf("TrackEvent() first purchase unexpected error: %v", err)
	}
	if first.Status != model.ReferralStatusPending {
		t.Errorf("first purchase status = %q, want pending", first.Status)
	}
	if math.Abs(first.Commission-20) > 1e-9 || math.Abs(first.TotalRevenue-200) > 1e-9 {
		t.Errorf("first purchase commission=%v revenue=%v, want 20/200", first.Commission, first.TotalRevenue)
	}

	input.Value = 50
	second, err := rl.TrackEvent(input)
	if err != nil {
		t.Fatalf("TrackEvent() second purchase unexpected error: %v", err)
	}
	if math.Abs(second.Commission-25) > 1e-9 {
		t.Errorf("accumulated commission = %v, want 25", second.Commission)
	}
	if math.Abs(second.TotalRevenue-250) > 1e-9 {
		t.Errorf("accumulated revenue = %v, want 250", second.TotalRevenue)
	}
	if second.TransactionsCount != 2 {
		t.Errorf("transactions count = %d, want 2", second.TransactionsCount)
	}

	var count int64
	db.Model(&model.ReferralModel{}).Count(&count)
	if count != 1 {
		t.Errorf("referral rows = %d, want 1", count)
	}
}

func TestTrackEventPurchaseAfterLostCreateRace(t *testing.T) {
	db := newTestDB(t)
	affiliate := seedAffiliate(t, db, model.ProgramTypePurchase, model.CommissionTypePercentage, 10)
	rl := NewReferralLogic(db)

	// 在Create执行前插入同一(伙伴, 客户)的记录，复现并发创建输掉竞争的时序
	seeded := false
	err := db.Callback().Create().Before("gorm:create").Register("concurrent_insert", func(tx *gorm.DB) {
		if seeded {
			return
		}
		if _, ok := tx.Statement.Dest.(*model.ReferralModel); !ok {
			return
		}
		seeded = true
		db.Create(&model.ReferralModel{
			AffiliateId:   affiliate.Id,
			CustomerEmail: "customer@example.com",
			Status:        model.ReferralStatusPending,
		})
	})
	if err != nil {
		t.Fatalf("failed to register callback: %v", err)
	}
	defer db.Callback().Create().Remove("concurrent_insert")

	referral, err := rl.TrackEvent(TrackEventInput{
		EventName:     "purchase",
		UTMSource:     "affiliate",
		UTMCampaign:   affiliate.ReferralCode,
		CustomerEmail: "customer@example.com",
		Value:         200,
	})
	if err != nil {
		t.Fatalf("TrackEvent() after lost create race unexpected error: %v", err)
	}

	if math.Abs(referral.Commission-20) > 1e-9 || math.Abs(referral.TotalRevenue-200) > 1e-9 {
		t.Errorf("commission=%v revenue=%v after lost race, want 20/200", referral.Commission, referral.TotalRevenue)
	}
	if referral.TransactionsCount != 1 {
		t.Errorf("transactions count = %d, want 1", referral.TransactionsCount)
	}

	var count int64
	db.Model(&model.ReferralModel{}).Count(&count)
	if count != 1 {
		t.Errorf("referral rows = %d, want 1", count)
	}
}

func TestTrackEventMissingEmail(t *testing.T) {
	db := newTestDB(t)
	affiliate := seedAffiliate(t, db, model.ProgramTypeSignup, model.CommissionTypeFixed, 25)
	rl := NewReferralLogic(db)

	_, err := rl.TrackEvent(TrackEventInput{
		EventName:   "sign_up",
		UTMSource:   "affiliate",
		UTMCampaign: affiliate.ReferralCode,
	})
	if !errors.Is(err, ErrMissingEmail) {
		t.Fatalf("TrackEvent() error = %v, want ErrMissingEmail", err)
	}
}
