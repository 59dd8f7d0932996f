package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/dto"
	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/httpresp"
	ucRegulation "github.com/prefsaude/regulacao-api/internal/usecase/regulation"
)

// ======================================================
// HANDLER
// ======================================================

type RequestHandler struct {
	submitUC     *ucRegulation.SubmitBatch
	listUC       *ucRegulation.ListRequests
	getUC        *ucRegulation.GetRequest
	textsUC      *ucRegulation.UpdateTexts
	cancelUC     *ucRegulation.CancelRequest
	hardDeleteUC *ucRegulation.HardDeleteRequest
}

func NewRequestHandler(
	submitUC *ucRegulation.SubmitBatch,
	listUC *ucRegulation.ListRequests,
	getUC *ucRegulation.GetRequest,
	textsUC *ucRegulation.UpdateTexts,
	cancelUC *ucRegulation.CancelRequest,
	hardDeleteUC *ucRegulation.HardDeleteRequest,
) *RequestHandler {
	return &RequestHandler{
		submitUC:     submitUC,
		listUC:       listUC,
		getUC:        getUC,
		textsUC:      textsUC,
		cancelUC:     cancelUC,
		hardDeleteUC: hardDeleteUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type SubmitExamBatchRequest struct {
	UBSID              uint   `json:"ubs_id" binding:"required"`
	RequestingDoctorID uint   `json:"requesting_doctor_id" binding:"required"`
	PatientID          uint   `json:"patient_id" binding:"required"`
	Priority           string `json:"priority" binding:"required"`
	Justification      string `json:"justification" binding:"required"`
	Notes              string `json:"notes"`
	ExamTypeIDs        []uint `json:"exam_type_ids" binding:"required,min=1"`
}

type SubmitConsultationRequest struct {
	UBSID              uint   `json:"ubs_id" binding:"required"`
	RequestingDoctorID uint   `json:"requesting_doctor_id" binding:"required"`
	PatientID          uint   `json:"patient_id" binding:"required"`
	SpecialtyID        uint   `json:"specialty_id" binding:"required"`
	Priority           string `json:"priority" binding:"required"`
	Justification      string `json:"justification" binding:"required"`
	Notes              string `json:"notes"`
}

type UpdateTextsRequest struct {
	Justification   *string `json:"justification"`
	SubmissionNotes *string `json:"submission_notes"`
	DecisionReason  *string `json:"decision_reason"`
	PendReason      *string `json:"pend_reason"`
}

// ======================================================
// SUBMIT
// ======================================================

func (h *RequestHandler) SubmitExams(c *gin.Context) {
	var req SubmitExamBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	created, err := h.submitUC.Execute(c.Request.Context(), principalFrom(c), ucRegulation.SubmitBatchInput{
		Kind:               domain.KindExam,
		UBSID:              req.UBSID,
		RequestingDoctorID: req.RequestingDoctorID,
		PatientID:          req.PatientID,
		Priority:           domain.Priority(req.Priority),
		Justification:      req.Justification,
		Notes:              req.Notes,
		ExamTypeIDs:        req.ExamTypeIDs,
	})
	if err != nil {
		writeBusiness(c, err, "failed_to_submit", "Erro ao registrar solicitação.")
		return
	}

	c.JSON(201, created)
}

func (h *RequestHandler) SubmitConsultation(c *gin.Context) {
	var req SubmitConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	created, err := h.submitUC.Execute(c.Request.Context(), principalFrom(c), ucRegulation.SubmitBatchInput{
		Kind:               domain.KindConsultation,
		UBSID:              req.UBSID,
		RequestingDoctorID: req.RequestingDoctorID,
		PatientID:          req.PatientID,
		Priority:           domain.Priority(req.Priority),
		Justification:      req.Justification,
		Notes:              req.Notes,
		SpecialtyID:        &req.SpecialtyID,
	})
	if err != nil {
		writeBusiness(c, err, "failed_to_submit", "Erro ao registrar solicitação.")
		return
	}

	c.JSON(201, created)
}

// ======================================================
// LIST / GET
// ======================================================

func (h *RequestHandler) List(c *gin.Context) {
	f, page, err := parseListQuery(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_filters", "Filtros inválidos.")
		return
	}

	requests, total, err := h.listUC.Execute(c.Request.Context(), principalFrom(c), f, page)
	if err != nil {
		writeBusiness(c, err, "failed_to_list", "Erro ao listar solicitações.")
		return
	}

	out := make([]dto.RequestListDTO, 0, len(requests))
	for _, r := range requests {
		out = append(out, dto.RequestListFrom(r))
	}

	httpresp.List(c, out, total)
}

func (h *RequestHandler) Get(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	req, err := h.getUC.Execute(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		writeBusiness(c, err, "failed_to_get", "Erro ao buscar solicitação.")
		return
	}

	httpresp.OK(c, req)
}

// ======================================================
// NARRATIVE FIELDS / CANCEL / DELETE
// ======================================================

func (h *RequestHandler) UpdateTexts(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req UpdateTextsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	updated, err := h.textsUC.Execute(c.Request.Context(), principalFrom(c), ucRegulation.UpdateTextsInput{
		RequestID:       id,
		Justification:   req.Justification,
		SubmissionNotes: req.SubmissionNotes,
		DecisionReason:  req.DecisionReason,
		PendReason:      req.PendReason,
	})
	if err != nil {
		writeBusiness(c, err, "failed_to_update", "Erro ao atualizar textos.")
		return
	}

	httpresp.OK(c, updated)
}

func (h *RequestHandler) Cancel(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	req, err := h.cancelUC.Execute(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		writeBusiness(c, err, "failed_to_cancel", "Erro ao cancelar solicitação.")
		return
	}

	httpresp.OK(c, req)
}

func (h *RequestHandler) HardDelete(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	if err := h.hardDeleteUC.Execute(c.Request.Context(), principalFrom(c), id); err != nil {
		writeBusiness(c, err, "failed_to_delete", "Erro ao excluir solicitação.")
		return
	}

	c.Status(204)
}

// ======================================================
// QUERY PARSING
// ======================================================

func paramID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

func parseListQuery(c *gin.Context) (domain.Filters, domain.Page, error) {
	f := domain.Filters{Query: c.Query("q")}

	if v := c.Query("kind"); v != "" {
		kind := domain.Kind(v)
		if !kind.Valid() {
			return f, domain.Page{}, errInvalidFilter
		}
		f.Kind = &kind
	}
	if v := c.Query("status"); v != "" {
		status := domain.Status(v)
		if !status.Valid() {
			return f, domain.Page{}, errInvalidFilter
		}
		f.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := domain.Priority(v)
		if !priority.Valid() {
			return f, domain.Page{}, errInvalidFilter
		}
		f.Priority = &priority
	}
	if v := c.Query("date_from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, domain.Page{}, err
		}
		f.DateFrom = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return f, domain.Page{}, err
		}
		f.DateTo = &t
	}

	for query, target := range map[string]**uint{
		"patient":   &f.PatientID,
		"ubs":       &f.UBSID,
		"specialty": &f.SpecialtyID,
		"exam_type": &f.ExamTypeID,
	} {
		if v := c.Query(query); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return f, domain.Page{}, err
			}
			parsed := uint(id)
			*target = &parsed
		}
	}

	page := domain.Page{}
	page.Number, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	page.Size, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))

	return f, page, nil
}

var errInvalidFilter = &invalidFilterError{}

type invalidFilterError struct{}

func (e *invalidFilterError) Error() string { return "invalid filter" }
