package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/httpresp"
	ucRegulation "github.com/prefsaude/regulacao-api/internal/usecase/regulation"
)

// ======================================================
// HANDLER (ações de regulador)
// ======================================================

type RegulationHandler struct {
	authorizeUC *ucRegulation.AuthorizeRequest
	denyUC      *ucRegulation.DenyRequest
}

func NewRegulationHandler(
	authorizeUC *ucRegulation.AuthorizeRequest,
	denyUC *ucRegulation.DenyRequest,
) *RegulationHandler {
	return &RegulationHandler{
		authorizeUC: authorizeUC,
		denyUC:      denyUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AuthorizeRequestBody struct {
	LocationID        uint   `json:"location_id" binding:"required"`
	Date              string `json:"date" binding:"required"`
	Time              string `json:"time" binding:"required"`
	AttendingDoctorID uint   `json:"attending_doctor_id" binding:"required"`
	Notes             string `json:"notes"`
}

type DenyRequestBody struct {
	Reason string `json:"reason" binding:"required"`
}

type BatchAuthorizeBody struct {
	PatientID uint `json:"patient_id" binding:"required"`
	Items     []struct {
		RequestID uint `json:"request_id" binding:"required"`
		AuthorizeRequestBody
	} `json:"items" binding:"required,min=1"`
}

// ======================================================
// AUTHORIZE
// ======================================================

func (h *RegulationHandler) Authorize(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var body AuthorizeRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	date, err := parseDate(body.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	req, err := h.authorizeUC.Execute(c.Request.Context(), principalFrom(c), ucRegulation.AuthorizeInput{
		RequestID:         id,
		LocationID:        body.LocationID,
		ScheduledDate:     date,
		ScheduledTime:     body.Time,
		AttendingDoctorID: body.AttendingDoctorID,
		Notes:             body.Notes,
	})
	if err != nil {
		writeBusiness(c, err, "failed_to_authorize", "Erro ao autorizar solicitação.")
		return
	}

	httpresp.OK(c, req)
}

func (h *RegulationHandler) BatchAuthorize(c *gin.Context) {
	var body BatchAuthorizeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	inputs := make([]ucRegulation.AuthorizeInput, 0, len(body.Items))
	for _, item := range body.Items {
		date, err := parseDate(item.Date)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida.")
			return
		}
		inputs = append(inputs, ucRegulation.AuthorizeInput{
			RequestID:         item.RequestID,
			LocationID:        item.LocationID,
			ScheduledDate:     date,
			ScheduledTime:     item.Time,
			AttendingDoctorID: item.AttendingDoctorID,
			Notes:             item.Notes,
		})
	}

	results, err := h.authorizeUC.ExecuteBatch(c.Request.Context(), principalFrom(c), body.PatientID, inputs)
	if err != nil {
		writeBusiness(c, err, "failed_to_authorize", "Erro ao autorizar lote.")
		return
	}

	out := make([]gin.H, 0, len(results))
	for _, r := range results {
		item := gin.H{"request_id": r.Input.RequestID, "ok": r.Error == nil}
		if r.Error != nil {
			if code, ok := httperr.BusinessCode(r.Error); ok {
				item["error"] = code
			} else {
				item["error"] = "internal"
			}
		}
		out = append(out, item)
	}

	httpresp.OK(c, gin.H{"results": out})
}

// ======================================================
// DENY
// ======================================================

func (h *RegulationHandler) Deny(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var body DenyRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	req, err := h.denyUC.Execute(c.Request.Context(), principalFrom(c), id, body.Reason)
	if err != nil {
		writeBusiness(c, err, "failed_to_deny", "Erro ao negar solicitação.")
		return
	}

	httpresp.OK(c, req)
}
