package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/middleware"
	"github.com/prefsaude/regulacao-api/internal/models"
	"github.com/prefsaude/regulacao-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditActionsHandler struct {
	db *gorm.DB
}

func NewAuditActionsHandler(db *gorm.DB) *AuditActionsHandler {
	return &AuditActionsHandler{db: db}
}

// TodayActions: "o que eu fiz hoje" — ações do próprio usuário desde a
// meia-noite local.
func (h *AuditActionsHandler) TodayActions(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	now := timezone.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var actions []models.AuditAction
	if err := h.db.
		Where("user_id = ? AND created_at >= ?", userID, startOfDay).
		Order("created_at DESC").
		Find(&actions).Error; err != nil {

		httperr.Internal(c, "failed_to_list_actions", "Erro ao listar ações.")
		return
	}

	c.JSON(200, gin.H{
		"date":    startOfDay.Format("2006-01-02"),
		"actions": actions,
	})
}

// List: consulta de auditoria para admin, com filtros e paginação.
func (h *AuditActionsHandler) List(c *gin.Context) {
	action := c.Query("action")
	entity := c.Query("entity")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	q := h.db.Model(&models.AuditAction{})

	if action != "" {
		q = q.Where("action = ?", action)
	}

	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if v := c.Query("user"); v != "" {
		if userID, err := strconv.ParseUint(v, 10, 32); err == nil {
			q = q.Where("user_id = ?", uint(userID))
		}
	}

	if fromStr != "" {
		if from, err := time.Parse("2006-01-02", fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}

	if toStr != "" {
		if to, err := time.Parse("2006-01-02", toStr); err == nil {
			q = q.Where("created_at <= ?", to.Add(24*time.Hour))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar ações.")
		return
	}

	var actions []models.AuditAction
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&actions).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar ações.")
		return
	}

	c.JSON(200, gin.H{
		"page":    page,
		"limit":   limit,
		"total":   total,
		"actions": actions,
	})
}
