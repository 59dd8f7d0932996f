package iam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint { return &v }

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUBSUser.Valid())
	assert.True(t, RoleRegulator.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("doctor").Valid())
	assert.False(t, Role("").Valid())
}

func TestCanRegulate(t *testing.T) {
	assert.True(t, Principal{Role: RoleRegulator}.CanRegulate())
	assert.True(t, Principal{Role: RoleAdmin}.CanRegulate())
	assert.False(t, Principal{Role: RoleUBSUser, UBSID: uintPtr(3)}.CanRegulate())
}

func TestCanAccessUBS(t *testing.T) {
	// regulação enxerga qualquer UBS
	assert.True(t, Principal{Role: RoleRegulator}.CanAccessUBS(3))
	assert.True(t, Principal{Role: RoleAdmin}.CanAccessUBS(3))

	ubs := Principal{Role: RoleUBSUser, UBSID: uintPtr(3)}
	assert.True(t, ubs.CanAccessUBS(3))
	assert.False(t, ubs.CanAccessUBS(4))

	// usuário de UBS sem vínculo não enxerga nada
	assert.False(t, Principal{Role: RoleUBSUser}.CanAccessUBS(3))
}

func TestCanSubmitFor(t *testing.T) {
	ubs := Principal{Role: RoleUBSUser, UBSID: uintPtr(3)}
	assert.True(t, ubs.CanSubmitFor(3))
	assert.False(t, ubs.CanSubmitFor(4))

	// regulador não submete; admin pode tudo
	assert.False(t, Principal{Role: RoleRegulator}.CanSubmitFor(3))
	assert.True(t, Principal{Role: RoleAdmin}.CanSubmitFor(3))
}
