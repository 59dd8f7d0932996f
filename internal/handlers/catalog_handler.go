package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/httpresp"
	"github.com/prefsaude/regulacao-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

// CatalogHandler serve as tabelas de referência. São CRUDs finos, sem
// regra de negócio, então falam direto com o banco.
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateUBSBody struct {
	Name     string `json:"name" binding:"required"`
	District string `json:"district"`
	Phone    string `json:"phone"`
}

type CreateDoctorBody struct {
	Name  string `json:"name" binding:"required"`
	CRM   string `json:"crm"`
	Phone string `json:"phone"`
}

type CreateSpecialtyBody struct {
	Name string `json:"name" binding:"required"`
}

type CreateExamTypeBody struct {
	Code       string `json:"code" binding:"required"`
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents"`
}

type CreateLocationBody struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type CreatePatientBody struct {
	Name      string `json:"name" binding:"required"`
	CPF       string `json:"cpf" binding:"required"`
	CNS       string `json:"cns"`
	BirthDate string `json:"birth_date"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// ======================================================
// UBS
// ======================================================

func (h *CatalogHandler) ListUBS(c *gin.Context) {
	var list []models.UBS
	if err := h.db.Order("name ASC").Find(&list).Error; err != nil {
		httperr.Internal(c, "failed_to_list_ubs", "Erro ao listar unidades.")
		return
	}
	httpresp.OK(c, list)
}

func (h *CatalogHandler) CreateUBS(c *gin.Context) {
	var body CreateUBSBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ubs := models.UBS{
		Name:     strings.TrimSpace(body.Name),
		District: body.District,
		Phone:    body.Phone,
	}
	if err := h.db.Create(&ubs).Error; err != nil {
		httperr.Internal(c, "failed_to_create_ubs", "Erro ao criar unidade.")
		return
	}

	c.JSON(201, ubs)
}

// ======================================================
// MÉDICOS
// ======================================================

func (h *CatalogHandler) ListDoctors(c *gin.Context) {
	var list []models.Doctor
	if err := h.db.Order("name ASC").Find(&list).Error; err != nil {
		httperr.Internal(c, "failed_to_list_doctors", "Erro ao listar médicos.")
		return
	}
	httpresp.OK(c, list)
}

func (h *CatalogHandler) CreateDoctor(c *gin.Context) {
	var body CreateDoctorBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	doctor := models.Doctor{
		Name:  strings.TrimSpace(body.Name),
		CRM:   body.CRM,
		Phone: body.Phone,
	}
	if err := h.db.Create(&doctor).Error; err != nil {
		httperr.Internal(c, "failed_to_create_doctor", "Erro ao criar médico.")
		return
	}

	c.JSON(201, doctor)
}

// ======================================================
// ESPECIALIDADES / TIPOS DE EXAME
// ======================================================

func (h *CatalogHandler) ListSpecialties(c *gin.Context) {
	var list []models.Specialty
	if err := h.db.Order("name ASC").Find(&list).Error; err != nil {
		httperr.Internal(c, "failed_to_list_specialties", "Erro ao listar especialidades.")
		return
	}
	httpresp.OK(c, list)
}

func (h *CatalogHandler) CreateSpecialty(c *gin.Context) {
	var body CreateSpecialtyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	specialty := models.Specialty{Name: strings.TrimSpace(body.Name)}
	if err := h.db.Create(&specialty).Error; err != nil {
		httperr.Internal(c, "failed_to_create_specialty", "Erro ao criar especialidade.")
		return
	}

	c.JSON(201, specialty)
}

func (h *CatalogHandler) ListExamTypes(c *gin.Context) {
	var list []models.ExamType
	if err := h.db.Order("name ASC").Find(&list).Error; err != nil {
		httperr.Internal(c, "failed_to_list_exam_types", "Erro ao listar tipos de exame.")
		return
	}
	httpresp.OK(c, list)
}

func (h *CatalogHandler) CreateExamType(c *gin.Context) {
	var body CreateExamTypeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	examType := models.ExamType{
		Code:       strings.ToUpper(strings.TrimSpace(body.Code)),
		Name:       strings.TrimSpace(body.Name),
		PriceCents: body.PriceCents,
	}
	if err := h.db.Create(&examType).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "exam_type_code_taken", "Já existe tipo de exame com esse código.")
			return
		}
		httperr.Internal(c, "failed_to_create_exam_type", "Erro ao criar tipo de exame.")
		return
	}

	c.JSON(201, examType)
}

// ======================================================
// LOCAIS DE ATENDIMENTO
// ======================================================

func (h *CatalogHandler) ListLocations(c *gin.Context) {
	var list []models.Location
	if err := h.db.Order("name ASC").Find(&list).Error; err != nil {
		httperr.Internal(c, "failed_to_list_locations", "Erro ao listar locais.")
		return
	}
	httpresp.OK(c, list)
}

func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var body CreateLocationBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	location := models.Location{
		Name:    strings.TrimSpace(body.Name),
		Address: body.Address,
		Phone:   body.Phone,
	}
	if err := h.db.Create(&location).Error; err != nil {
		httperr.Internal(c, "failed_to_create_location", "Erro ao criar local.")
		return
	}

	c.JSON(201, location)
}

// ======================================================
// PACIENTES
// ======================================================

func (h *CatalogHandler) ListPatients(c *gin.Context) {
	q := h.db.Model(&models.Patient{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR cpf LIKE ?", like, like)
	}

	var patients []models.Patient
	if err := q.Order("name ASC").Limit(100).Find(&patients).Error; err != nil {
		httperr.Internal(c, "failed_to_list_patients", "Erro ao listar pacientes.")
		return
	}

	httpresp.OK(c, patients)
}

func (h *CatalogHandler) CreatePatient(c *gin.Context) {
	var body CreatePatientBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	patient := models.Patient{
		Name:    strings.TrimSpace(body.Name),
		CPF:     strings.TrimSpace(body.CPF),
		CNS:     body.CNS,
		Phone:   body.Phone,
		Address: body.Address,
	}

	if body.BirthDate != "" {
		birth, err := time.Parse("2006-01-02", body.BirthDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_birth_date", "Data de nascimento inválida.")
			return
		}
		patient.BirthDate = &birth
	}

	if err := h.db.Create(&patient).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "cpf_taken", "Já existe paciente com esse CPF.")
			return
		}
		httperr.Internal(c, "failed_to_create_patient", "Erro ao cadastrar paciente.")
		return
	}

	c.JSON(201, patient)
}
