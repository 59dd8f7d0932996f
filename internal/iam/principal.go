package iam

type Role string

const (
	RoleUBSUser   Role = "ubs_user"
	RoleRegulator Role = "regulator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUBSUser, RoleRegulator, RoleAdmin:
		return true
	}
	return false
}

// Principal é o chamador resolvido: papel + vínculo opcional de UBS.
// Toda operação do núcleo é predicada nas decisões daqui.
type Principal struct {
	UserID uint
	Role   Role
	UBSID  *uint
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanRegulate cobre transições de regulador: autorizar, negar,
// abrir/resolver pendência, registrar desfecho.
func (p Principal) CanRegulate() bool {
	return p.Role == RoleRegulator || p.Role == RoleAdmin
}

// CanAccessUBS decide visibilidade: regulador e admin enxergam tudo,
// usuário de UBS apenas a própria.
func (p Principal) CanAccessUBS(ubsID uint) bool {
	if p.CanRegulate() {
		return true
	}
	return p.UBSID != nil && *p.UBSID == ubsID
}

// CanSubmitFor: submissão só pela UBS do vínculo (admin pode tudo).
func (p Principal) CanSubmitFor(ubsID uint) bool {
	if p.IsAdmin() {
		return true
	}
	if p.Role != RoleUBSUser {
		return false
	}
	return p.UBSID != nil && *p.UBSID == ubsID
}
