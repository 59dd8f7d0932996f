package notify

import (
	"fmt"
	"log"

	domain "github.com/prefsaude/regulacao-api/internal/domain/regulation"
	"github.com/prefsaude/regulacao-api/internal/models"
)

// Bus consome eventos de domínio e abre leque de notificações por
// usuário. Entrega é at-least-once: erro transitório pode duplicar,
// nunca segura a requisição que originou o evento.
type Bus struct {
	store Store
	queue chan domain.Event
}

func NewBus(store Store) *Bus {
	b := &Bus{
		store: store,
		queue: make(chan domain.Event, 200),
	}

	go b.worker()
	return b
}

func (b *Bus) Publish(ev domain.Event) {
	select {
	case b.queue <- ev:
	default:
		log.Println("notify queue full, dropping event")
	}
}

func (b *Bus) worker() {
	for ev := range b.queue {
		b.fanOut(ev)
	}
}

func (b *Bus) fanOut(ev domain.Event) {
	text, ok := MessageFor(ev)
	if !ok {
		return
	}

	recipients, err := b.recipients(ev)
	if err != nil {
		log.Println("notify recipients error:", err)
		return
	}

	deepLink := fmt.Sprintf("/requests/%d", ev.Request.ID)

	for _, userID := range recipients {
		n := models.Notification{
			UserID:   userID,
			Text:     text,
			DeepLink: deepLink,
		}
		if err := b.store.Insert(&n); err != nil {
			log.Println("notify insert error:", err)
		}
	}
}

// recipients: transições da regulação avisam o grupo da UBS de origem;
// resposta de pendência e nova submissão avisam os reguladores.
func (b *Bus) recipients(ev domain.Event) ([]uint, error) {
	switch ev.Kind {
	case domain.EventPendenciaOpened,
		domain.EventPendenciaResolved,
		domain.EventAuthorized,
		domain.EventDenied:
		return b.store.UBSUserIDs(ev.Request.UBSID)

	case domain.EventSubmitted,
		domain.EventPendenciaReplied:
		return b.store.RegulatorIDs()
	}

	return nil, nil
}

// MessageFor monta o texto curto da notificação; eventos sem mensagem
// (cancelamento, desfecho) não notificam ninguém.
func MessageFor(ev domain.Event) (string, bool) {
	r := ev.Request

	switch ev.Kind {
	case domain.EventSubmitted:
		return fmt.Sprintf("Nova solicitação %s na fila de regulação", r.Protocol), true

	case domain.EventPendenciaOpened:
		return fmt.Sprintf("Pendência aberta na solicitação %s: %s", r.Protocol, excerpt(r.PendReason, 80)), true

	case domain.EventPendenciaReplied:
		return fmt.Sprintf("UBS respondeu à pendência da solicitação %s", r.Protocol), true

	case domain.EventPendenciaResolved:
		return fmt.Sprintf("Pendência da solicitação %s resolvida", r.Protocol), true

	case domain.EventAuthorized:
		date := ""
		if r.ScheduledDate != nil {
			date = r.ScheduledDate.Format("02/01/2006")
		}
		msg := fmt.Sprintf(
			"Solicitação %s autorizada para %s às %s",
			r.Protocol, date, r.ScheduledTime,
		)
		if r.Location != nil && r.Location.Name != "" {
			msg += " em " + r.Location.Name
		}
		return msg, true

	case domain.EventDenied:
		return fmt.Sprintf("Solicitação %s negada: %s", r.Protocol, excerpt(r.DecisionReason, 80)), true
	}

	return "", false
}

func excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
