package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/httpresp"
	"github.com/prefsaude/regulacao-api/internal/models"
	ucCapacity "github.com/prefsaude/regulacao-api/internal/usecase/capacity"
)

// ======================================================
// HANDLER
// ======================================================

type CapacityHandler struct {
	db         *gorm.DB
	upsertUC   *ucCapacity.UpsertBucket
	generateUC *ucCapacity.GenerateFromTemplate
}

func NewCapacityHandler(
	db *gorm.DB,
	upsertUC *ucCapacity.UpsertBucket,
	generateUC *ucCapacity.GenerateFromTemplate,
) *CapacityHandler {
	return &CapacityHandler{
		db:         db,
		upsertUC:   upsertUC,
		generateUC: generateUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpsertBucketBody struct {
	DoctorID    uint   `json:"doctor_id" binding:"required"`
	SpecialtyID *uint  `json:"specialty_id"`
	ExamTypeID  *uint  `json:"exam_type_id"`
	Date        string `json:"date" binding:"required"`
	Capacity    int    `json:"capacity" binding:"required,min=1"`
	Active      *bool  `json:"active"`
}

type GenerateBody struct {
	DoctorID      uint   `json:"doctor_id" binding:"required"`
	SpecialtyIDs  []uint `json:"specialty_ids" binding:"required,min=1"`
	Weekdays      []int  `json:"weekdays" binding:"required,min=1"`
	Start         string `json:"start" binding:"required"`
	HorizonMonths int    `json:"horizon_months" binding:"required,min=1"`
	Capacity      int    `json:"capacity" binding:"required,min=1"`
	Overwrite     bool   `json:"overwrite"`
}

// ======================================================
// BUCKETS
// ======================================================

func (h *CapacityHandler) UpsertBucket(c *gin.Context) {
	var body UpsertBucketBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	date, err := parseDate(body.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	active := true
	if body.Active != nil {
		active = *body.Active
	}

	bucket, err := h.upsertUC.Execute(c.Request.Context(), principalFrom(c), ucCapacity.UpsertBucketInput{
		DoctorID:    body.DoctorID,
		SpecialtyID: body.SpecialtyID,
		ExamTypeID:  body.ExamTypeID,
		Date:        date,
		Capacity:    body.Capacity,
		Active:      active,
	})
	if err != nil {
		writeBusiness(c, err, "failed_to_upsert_bucket", "Erro ao gravar agenda.")
		return
	}

	httpresp.OK(c, bucket)
}

func (h *CapacityHandler) ListBuckets(c *gin.Context) {
	q := h.db.Model(&models.DailyCapacityBucket{}).Preload("Doctor")

	if v := c.Query("doctor"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			httperr.BadRequest(c, "invalid_doctor", "Médico inválido.")
			return
		}
		q = q.Where("doctor_id = ?", uint(id))
	}

	if v := c.Query("date_from"); v != "" {
		from, err := parseDate(v)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		q = q.Where("date >= ?", from)
	}
	if v := c.Query("date_to"); v != "" {
		to, err := parseDate(v)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		q = q.Where("date <= ?", to)
	}

	var buckets []models.DailyCapacityBucket
	if err := q.Order("date ASC, doctor_id ASC").Find(&buckets).Error; err != nil {
		httperr.Internal(c, "failed_to_list_buckets", "Erro ao listar agenda.")
		return
	}

	httpresp.OK(c, buckets)
}

// DeleteBucket remove um bucket apenas se nenhuma autorizada ocupa a tripla.
func (h *CapacityHandler) DeleteBucket(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var bucket models.DailyCapacityBucket
	if err := h.db.First(&bucket, id).Error; err != nil {
		httperr.NotFound(c, "bucket_not_found", "Agenda não encontrada.")
		return
	}

	countQ := h.db.Model(&models.Request{}).
		Where(
			"attending_doctor_id = ? AND scheduled_date = ? AND status = 'authorized'",
			bucket.DoctorID, bucket.Date,
		)
	if bucket.SpecialtyID != nil {
		countQ = countQ.Where("specialty_id = ?", *bucket.SpecialtyID)
	} else {
		countQ = countQ.Where("exam_type_id = ?", *bucket.ExamTypeID)
	}

	var reserved int64
	if err := countQ.Count(&reserved).Error; err != nil {
		httperr.Internal(c, "failed_to_check_bucket", "Erro ao verificar agenda.")
		return
	}
	if reserved > 0 {
		httperr.Conflict(c, "bucket_in_use", "Agenda possui autorizações; não pode ser removida.")
		return
	}

	if err := h.db.Delete(&bucket).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_bucket", "Erro ao remover agenda.")
		return
	}

	c.Status(204)
}

// ======================================================
// TEMPLATES
// ======================================================

func (h *CapacityHandler) Generate(c *gin.Context) {
	var body GenerateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	start, err := parseDate(body.Start)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	result, err := h.generateUC.Execute(c.Request.Context(), principalFrom(c), ucCapacity.GenerateInput{
		DoctorID:      body.DoctorID,
		SpecialtyIDs:  body.SpecialtyIDs,
		Weekdays:      body.Weekdays,
		Start:         start,
		HorizonMonths: body.HorizonMonths,
		Capacity:      body.Capacity,
		Overwrite:     body.Overwrite,
	})
	if err != nil {
		writeBusiness(c, err, "failed_to_generate", "Erro ao materializar agenda.")
		return
	}

	httpresp.OK(c, result)
}

func (h *CapacityHandler) ListTemplates(c *gin.Context) {
	q := h.db.Model(&models.WeeklyCapacityTemplate{})

	if v := c.Query("doctor"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			httperr.BadRequest(c, "invalid_doctor", "Médico inválido.")
			return
		}
		q = q.Where("doctor_id = ?", uint(id))
	}

	var templates []models.WeeklyCapacityTemplate
	if err := q.Order("doctor_id ASC, specialty_id ASC, weekday ASC").Find(&templates).Error; err != nil {
		httperr.Internal(c, "failed_to_list_templates", "Erro ao listar moldes.")
		return
	}

	httpresp.OK(c, templates)
}
