package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/httpresp"
	ucRegulation "github.com/prefsaude/regulacao-api/internal/usecase/regulation"
)

type PendenciaHandler struct {
	pendencia *ucRegulation.Pendencia
}

func NewPendenciaHandler(pendencia *ucRegulation.Pendencia) *PendenciaHandler {
	return &PendenciaHandler{pendencia: pendencia}
}

type PendenciaTextBody struct {
	Text string `json:"text" binding:"required"`
}

type OpenPendenciaBody struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *PendenciaHandler) Open(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var body OpenPendenciaBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	req, err := h.pendencia.Open(c.Request.Context(), principalFrom(c), id, body.Reason)
	if err != nil {
		writeBusiness(c, err, "failed_to_open_pendencia", "Erro ao abrir pendência.")
		return
	}

	httpresp.OK(c, req)
}

func (h *PendenciaHandler) PostMessage(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var body PendenciaTextBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	msg, err := h.pendencia.PostMessage(c.Request.Context(), principalFrom(c), id, body.Text)
	if err != nil {
		writeBusiness(c, err, "failed_to_post_message", "Erro ao registrar mensagem.")
		return
	}

	c.JSON(201, msg)
}

func (h *PendenciaHandler) Reply(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var body PendenciaTextBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	req, err := h.pendencia.Reply(c.Request.Context(), principalFrom(c), id, body.Text)
	if err != nil {
		writeBusiness(c, err, "failed_to_reply", "Erro ao responder pendência.")
		return
	}

	httpresp.OK(c, req)
}

func (h *PendenciaHandler) Resolve(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	req, err := h.pendencia.Resolve(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		writeBusiness(c, err, "failed_to_resolve", "Erro ao resolver pendência.")
		return
	}

	httpresp.OK(c, req)
}

func (h *PendenciaHandler) Timeline(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	msgs, err := h.pendencia.Timeline(c.Request.Context(), principalFrom(c), id)
	if err != nil {
		writeBusiness(c, err, "failed_to_list_timeline", "Erro ao listar pendência.")
		return
	}

	httpresp.OK(c, msgs)
}
