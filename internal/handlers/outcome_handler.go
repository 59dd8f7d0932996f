package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/httpresp"
	ucRegulation "github.com/prefsaude/regulacao-api/internal/usecase/regulation"
)

type OutcomeHandler struct {
	recordUC *ucRegulation.RecordOutcome
}

func NewOutcomeHandler(recordUC *ucRegulation.RecordOutcome) *OutcomeHandler {
	return &OutcomeHandler{recordUC: recordUC}
}

type RecordOutcomeBody struct {
	Result string `json:"result" binding:"required"`
	Note   string `json:"note"`
}

type RecordOutcomesBatchBody struct {
	// Date restringe o lote a solicitações agendadas para o dia (fechamento
	// de agenda); vazio aceita qualquer item autorizado.
	Date  string `json:"date"`
	Items []struct {
		RequestID uint   `json:"request_id" binding:"required"`
		Result    string `json:"result" binding:"required"`
		Note      string `json:"note"`
	} `json:"items" binding:"required,min=1"`
}

func (h *OutcomeHandler) Record(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var body RecordOutcomeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	req, err := h.recordUC.Execute(
		c.Request.Context(),
		principalFrom(c),
		id,
		domain.AttendanceResult(body.Result),
		body.Note,
	)
	if err != nil {
		writeBusiness(c, err, "failed_to_record_outcome", "Erro ao registrar desfecho.")
		return
	}

	httpresp.OK(c, req)
}

func (h *OutcomeHandler) RecordBatch(c *gin.Context) {
	var body RecordOutcomesBatchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	var day time.Time
	if body.Date != "" {
		parsed, err := parseDate(body.Date)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Data inválida. Use o formato YYYY-MM-DD.")
			return
		}
		day = parsed
	}

	items := make([]ucRegulation.OutcomeItem, 0, len(body.Items))
	for _, item := range body.Items {
		items = append(items, ucRegulation.OutcomeItem{
			RequestID: item.RequestID,
			Result:    domain.AttendanceResult(item.Result),
			Note:      item.Note,
		})
	}

	results, err := h.recordUC.ExecuteBatch(c.Request.Context(), principalFrom(c), day, items)
	if err != nil {
		writeBusiness(c, err, "failed_to_record_outcomes", "Erro ao registrar desfechos.")
		return
	}

	out := make([]gin.H, 0, len(results))
	for _, r := range results {
		item := gin.H{"request_id": r.RequestID, "ok": r.Error == nil}
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
