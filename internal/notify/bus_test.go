package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/models"
)

func sampleRequest() models.Request {
	date := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	return models.Request{
		ID:            1,
		Protocol:      "con02012025-0001",
		UBSID:         3,
		ScheduledDate: &date,
		ScheduledTime: "14:30",
	}
}

func TestMessageFor(t *testing.T) {
	req := sampleRequest()

	msg, ok := MessageFor(domain.Event{Kind: domain.EventSubmitted, Request: req})
	assert.True(t, ok)
	assert.Contains(t, msg, "con02012025-0001")

	req.PendReason = "falta laudo"
	msg, ok = MessageFor(domain.Event{Kind: domain.EventPendenciaOpened, Request: req})
	assert.True(t, ok)
	assert.Contains(t, msg, "falta laudo")

	// data, hora e local na mesma mensagem
	req.Location = &models.Location{Name: "Policlínica Central"}
	msg, ok = MessageFor(domain.Event{Kind: domain.EventAuthorized, Request: req})
	assert.True(t, ok)
	assert.Contains(t, msg, "10/02/2025")
	assert.Contains(t, msg, "14:30")
	assert.Contains(t, msg, "Policlínica Central")

	// sem local carregado a mensagem mantém data e hora
	req.Location = nil
	msg, ok = MessageFor(domain.Event{Kind: domain.EventAuthorized, Request: req})
	assert.True(t, ok)
	assert.Contains(t, msg, "14:30")

	req.DecisionReason = "fora do protocolo"
	msg, ok = MessageFor(domain.Event{Kind: domain.EventDenied, Request: req})
	assert.True(t, ok)
	assert.Contains(t, msg, "fora do protocolo")
}

func TestMessageFor_SilentEvents(t *testing.T) {
	req := sampleRequest()

	// cancelamento e desfecho não notificam ninguém
	_, ok := MessageFor(domain.Event{Kind: domain.EventCancelled, Request: req})
	assert.False(t, ok)

	_, ok = MessageFor(domain.Event{Kind: domain.EventOutcomeRecorded, Request: req})
	assert.False(t, ok)
}

func TestMessageFor_TruncatesLongReason(t *testing.T) {
	req := sampleRequest()
	req.PendReason = strings.Repeat("x", 200)

	msg, ok := MessageFor(domain.Event{Kind: domain.EventPendenciaOpened, Request: req})
	assert.True(t, ok)
	assert.Contains(t, msg, strings.Repeat("x", 80)+"...")
	assert.NotContains(t, msg, strings.Repeat("x", 81))
}
