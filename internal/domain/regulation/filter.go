package regulation

import "time"

// Filters é o conjunto fechado de filtros da fila; a camada de consulta
// compila cada campo preenchido em predicado parametrizado. Nada de
// filtro por nome de coluna arbitrário.
type Filters struct {
	Kind        *Kind
	Status      *Status
	Priority    *Priority
	DateFrom    *time.Time
	DateTo      *time.Time
	PatientID   *uint
	UBSID       *uint
	SpecialtyID *uint
	ExamTypeID  *uint

	// busca livre: protocolo, order number ou nome do paciente
	Query string
}

// Scope restringe a visibilidade no nível da query: UBSID nil = regulação
// (vê tudo); preenchido = usuário de UBS, só a própria.
type Scope struct {
	UBSID *uint
}

type Page struct {
	Number int
	Size   int
}

func (p Page) Normalize() Page {
	if p.Number <= 0 {
		p.Number = 1
	}
	if p.Size <= 0 || p.Size > 200 {
		p.Size = 50
	}
	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
