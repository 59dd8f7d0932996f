package regulation

import "github.com/prefsaude/regulacao-api/internal/models"

// Eventos de domínio emitidos a cada transição; consumidos pelo bus de
// notificações e pelo log de auditoria.

type EventKind string

const (
	EventSubmitted         EventKind = "submitted"
	EventPendenciaOpened   EventKind = "pendencia_opened"
	EventPendenciaReplied  EventKind = "pendencia_replied"
	EventPendenciaResolved EventKind = "pendencia_resolved"
	EventAuthorized        EventKind = "authorized"
	EventDenied            EventKind = "denied"
	EventCancelled         EventKind = "cancelled"
	EventOutcomeRecorded   EventKind = "outcome_recorded"
)

type Event struct {
	Kind    EventKind
	Request models.Request
	ActorID *uint
}
