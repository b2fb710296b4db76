package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/ams/internal/logic"
	"github.com/blues/ams/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProgramHandler struct {
	programLogic *logic.ProgramLogic
}

func NewProgramHandler(db *gorm.DB) *ProgramHandler {
	return &ProgramHandler{
		programLogic: logic.NewProgramLogic(db),
	}
}

// CreateProgram 创建佣金计划
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var program model.ProgramModel
	if err := c.ShouldBindJSON(&program); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.programLogic.CreateProgram(&program); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "计划创建成功",
		"program": program,
	})
}

// GetPrograms 获取计划列表
func (h *ProgramHandler) GetPrograms(c *gin.Context) {
	status := c.Query("status")

	programs, err := h.programLogic.GetPrograms(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"programs": programs})
}

// GetProgram 获取单个计划详情
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的计划ID"})
		return
	}

	program, err := h.programLogic.GetProgram(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"program": program})
}

// UpdateProgram 更新计划
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的计划ID"})
		return
	}

	// 只允许更新特定字段
	var updateData struct {
		Name           *string  `json:"name"`
		Commission     *float64 `json:"commission"`
		ReferralTarget *int     `json:"referral_target"`
		Status         *string  `json:"status"`
	}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if updateData.Name != nil {
		updates["name"] = *updateData.Name
	}
	if updateData.Commission != nil {
		updates["commission"] = *updateData.Commission
	}
	if updateData.ReferralTarget != nil {
		updates["referral_target"] = *updateData.ReferralTarget
	}
	if updateData.Status != nil {
		updates["status"] = *updateData.Status
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "没有要更新的字段"})
		return
	}

	if err := h.programLogic.UpdateProgram(id, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "计划更新成功"})
}

// DeleteProgram 删除计划
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的计划ID"})
		return
	}

	if err := h.programLogic.DeleteProgram(id); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "计划已删除"})
}
