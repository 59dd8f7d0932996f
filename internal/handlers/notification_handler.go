package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/httpresp"
	"github.com/prefsaude/regulacao-api/internal/middleware"
	"github.com/prefsaude/regulacao-api/internal/models"
)

type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

// List devolve as notificações do próprio usuário, mais novas primeiro.
func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := h.db.Where("user_id = ?", userID)

	if c.Query("unread_only") == "true" {
		q = q.Where("read = ?", false)
	}

	var notifications []models.Notification
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notifications).Error; err != nil {

		httperr.Internal(c, "failed_to_list_notifications", "Erro ao listar notificações.")
		return
	}

	httpresp.OK(c, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var n models.Notification
	if err := h.db.
		Where("id = ? AND user_id = ?", id, userID).
		First(&n).Error; err != nil {

		httperr.NotFound(c, "notification_not_found", "Notificação não encontrada.")
		return
	}

	n.Read = true
	if err := h.db.Save(&n).Error; err != nil {
		httperr.Internal(c, "failed_to_mark_read", "Erro ao marcar notificação.")
		return
	}

	httpresp.OK(c, n)
}
