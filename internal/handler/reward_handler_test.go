package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/blues/ams/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newRewardTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&model.RewardModel{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewRewardHandler(db)
	r.GET("/api/v1/rewards", h.GetRewards)
	r.POST("/api/v1/rewards/:id/claim", h.ClaimReward)

	return r, db
}

func doRequest(t *testing.T, r *gin.Engine, method, path string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)

	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}

	return w, resp
}

func TestClaimRewardResponses(t *testing.T) {
	r, db := newRewardTestRouter(t)

	qualified := model.RewardModel{AffiliateId: 1, ProgramId: 1, Status: model.RewardStatusQualified}
	if err := db.Create(&qualified).Error; err != nil {
		t.Fatalf("failed to seed reward: %v", err)
	}
	pending := model.RewardModel{AffiliateId: 1, ProgramId: 2, Status: model.RewardStatusPending}
	if err := db.Create(&pending).Error; err != nil {
		t.Fatalf("failed to seed reward: %v", err)
	}

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/rewards/1/claim")
	if w.Code != http.StatusOK {
		t.Fatalf("claim qualified reward status = %d, want 200", w.Code)
	}
	if !resp.Success || resp.Message != "奖励已领取" {
		t.Errorf("claim response = %+v, want success with claim message", resp)
	}

	var claimed model.RewardModel
	if err := db.First(&claimed, qualified.Id).Error; err != nil {
		t.Fatalf("failed to reload reward: %v", err)
	}
	if claimed.Status != model.RewardStatusClaimed {
		t.Errorf("reward status = %q, want claimed", claimed.Status)
	}

	// 未达标的奖励不可领取
	w, resp = doRequest(t, r, http.MethodPost, "/api/v1/rewards/2/claim")
	if w.Code != http.StatusConflict {
		t.Fatalf("claim pending reward status = %d, want 409", w.Code)
	}
	if resp.Success {
		t.Errorf("claim pending reward response success = true, want false")
	}

	w, resp = doRequest(t, r, http.MethodPost, "/api/v1/rewards/abc/claim")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("claim with bad id status = %d, want 400", w.Code)
	}
	if resp.Success {
		t.Errorf("claim with bad id response success = true, want false")
	}
}

func TestGetRewardsEnvelope(t *testing.T) {
	r, db := newRewardTestRouter(t)

	if err := db.Create(&model.RewardModel{AffiliateId: 7, ProgramId: 1, Status: model.RewardStatusPending}).Error; err != nil {
		t.Fatalf("failed to seed reward: %v", err)
	}

	w, resp := doRequest(t, r, http.MethodGet, "/api/v1/rewards?affiliate_id=7")
	if w.Code != http.StatusOK {
		t.Fatalf("get rewards status = %d, want 200", w.Code)
	}
	if !resp.Success {
		t.Errorf("get rewards response success = false, want true")
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("response data = %T, want object", resp.Data)
	}
	rewards, ok := data["rewards"].([]interface{})
	if !ok || len(rewards) != 1 {
		t.Errorf("rewards payload = %v, want one record", data["rewards"])
	}
}
