package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prefsaude/regulacao-api/internal/httperr"
	"github.com/prefsaude/regulacao-api/internal/iam"
	"github.com/prefsaude/regulacao-api/internal/middleware"
	"github.com/prefsaude/regulacao-api/internal/timezone"
)

func principalFrom(c *gin.Context) iam.Principal {
	p := iam.Principal{
		UserID: c.MustGet(middleware.ContextUserID).(uint),
		Role:   iam.Role(c.MustGet(middleware.ContextUserRole).(string)),
	}

	if v, ok := c.Get(middleware.ContextUBSID); ok {
		ubsID := v.(uint)
		p.UBSID = &ubsID
	}

	return p
}

func parseDate(dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, timezone.Location(""))
}

// writeBusiness traduz o erro de negócio para o status HTTP; qualquer
// outra coisa é falha de infraestrutura.
func writeBusiness(c *gin.Context, err error, fallbackCode, fallbackMsg string) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, fallbackCode, fallbackMsg)
		return
	}

	switch code {
	case httperr.CodeValidation:
		httperr.BadRequest(c, code, "Dados inválidos.")
	case httperr.CodeAccessDenied:
		httperr.Forbidden(c, code, "Acesso negado.")
	case httperr.CodeNotFound:
		httperr.NotFound(c, code, "Registro não encontrado.")
	case httperr.CodeInvalidTransition:
		httperr.Conflict(c, code, "Transição de estado não permitida.")
	case httperr.CodeOverbook:
		httperr.Conflict(c, code, "Capacidade esgotada para a agenda escolhida.")
	case httperr.CodeNoBucket:
		httperr.Conflict(c, code, "Sem agenda materializada para a data.")
	case httperr.CodeTooEarly:
		httperr.BadRequest(c, code, "Desfecho só pode ser registrado a partir da data agendada.")
	case httperr.CodeConflict:
		httperr.Conflict(c, code, "Conflito ao gravar; tente novamente.")
	case httperr.CodeAuthFailed:
		httperr.Unauthorized(c, code, "Credenciais inválidas.")
	default:
		httperr.BadRequest(c, code, "Operação recusada.")
	}
}
