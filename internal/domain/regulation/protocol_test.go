package regulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProtocolPrefix(t *testing.T) {
	day := time.Date(2025, 1, 2, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, "exa02012025", ProtocolPrefix(KindExam, day))
	assert.Equal(t, "con02012025", ProtocolPrefix(KindConsultation, day))
}

func TestFormatProtocol_MatchesPublicFormat(t *testing.T) {
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	p := FormatProtocol(ProtocolPrefix(KindExam, day), 1)
	assert.Equal(t, "exa02012025-0001", p)
	assert.Regexp(t, ProtocolRegexp, p)

	p = FormatProtocol(ProtocolPrefix(KindConsultation, day), 42)
	assert.Equal(t, "con02012025-0042", p)
	assert.Regexp(t, ProtocolRegexp, p)
}

func TestProtocolSeq(t *testing.T) {
	seq, ok := ProtocolSeq("exa02012025-0007")
	assert.True(t, ok)
	assert.Equal(t, 7, seq)

	seq, ok = ProtocolSeq("con31122025-1234")
	assert.True(t, ok)
	assert.Equal(t, 1234, seq)

	_, ok = ProtocolSeq("semtraco")
	assert.False(t, ok)

	_, ok = ProtocolSeq("exa02012025-abc")
	assert.False(t, ok)
}

func TestNewOrderNumber(t *testing.T) {
	on := NewOrderNumber(KindExam, 1)
	assert.Regexp(t, OrderNumberRegexp, on)
	assert.Equal(t, "EXA-001-", on[:8])

	on = NewOrderNumber(KindConsultation, 23)
	assert.Regexp(t, OrderNumberRegexp, on)
	assert.Equal(t, "CON-023-", on[:8])
}

func TestNewOrderNumber_Varies(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[NewOrderNumber(KindExam, 1)] = true
	}
	// 5 chars aleatórios: colisão total em 50 tentativas é implausível
	assert.Greater(t, len(seen), 1)
}
