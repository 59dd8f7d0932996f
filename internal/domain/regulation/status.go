package regulation

import "github.com/prefsaude/regulacao-api/internal/httperr"

// ===============================
// Request Kind / Status
// ===============================

type Kind string

const (
	KindExam         Kind = "exam"
	KindConsultation Kind = "consultation"
)

func (k Kind) Valid() bool {
	return k == KindExam || k == KindConsultation
}

type Status string

const (
	StatusQueued     Status = "queued"
	StatusPending    Status = "pending"
	StatusAuthorized Status = "authorized"
	StatusDenied     Status = "denied"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusPending, StatusAuthorized, StatusDenied, StatusCancelled:
		return true
	}
	return false
}

// ===============================
// Transition guards
// ===============================
//
// queued    → pending | authorized | denied | cancelled
// pending   → queued (resposta da UBS ou pendência resolvida)
// authorized/denied/cancelled são terminais; authorized ainda aceita
// a anotação de desfecho após a data agendada.

func CanOpenPendencia(current Status) error {
	if current != StatusQueued {
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}
	return nil
}

func CanAuthorize(current Status) error {
	if current != StatusQueued {
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}
	return nil
}

func CanDeny(current Status) error {
	if current != StatusQueued {
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}
	return nil
}

func CanCancel(current Status) error {
	if current != StatusQueued {
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}
	return nil
}

// CanReturnToQueue cobre a volta pending → queued (reply ou resolução).
func CanReturnToQueue(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}
	return nil
}

func CanRecordOutcome(current Status) error {
	if current != StatusAuthorized {
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}
	return nil
}

func InitialStatus() Status {
	return StatusQueued
}
