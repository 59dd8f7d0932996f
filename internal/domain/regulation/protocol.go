package regulation

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Formatos visíveis ao usuário, estáveis:
//
//	protocolo:    exa02012025-0001  (kind + ddmmyyyy + sufixo diário)
//	order number: EXA-001-7K2QX     (kind + UBS + aleatório)
var (
	ProtocolRegexp    = regexp.MustCompile(`^(exa|con)\d{8}-\d{4}$`)
	OrderNumberRegexp = regexp.MustCompile(`^(EXA|CON)-\d{3}-[A-Z0-9]{5}$`)
)

const orderNumberCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func kindPrefix(kind Kind) string {
	if kind == KindConsultation {
		return "con"
	}
	return "exa"
}

// ProtocolPrefix monta a parte fixa do protocolo para um dia:
// "exa" | "con" + ddmmyyyy.
func ProtocolPrefix(kind Kind, day time.Time) string {
	return kindPrefix(kind) + day.Format("02012006")
}

func FormatProtocol(prefix string, seq int) string {
	return fmt.Sprintf("%s-%04d", prefix, seq)
}

// ProtocolSeq extrai o sufixo numérico diário de um protocolo já atribuído.
func ProtocolSeq(protocol string) (int, bool) {
	idx := strings.LastIndex(protocol, "-")
	if idx < 0 {
		return 0, false
	}
	seq, err := strconv.Atoi(protocol[idx+1:])
	if err != nil {
		return 0, false
	}
	return seq, true
}

// NewOrderNumber gera o identificador compartilhado pelos itens de uma
// mesma submissão: KIND-UBSID-RANDOM5.
func NewOrderNumber(kind Kind, ubsID uint) string {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand nunca falha em plataformas suportadas
		panic(err)
	}

	suffix := make([]byte, 5)
	for i, b := range buf {
		suffix[i] = orderNumberCharset[int(b)%len(orderNumberCharset)]
	}

	return fmt.Sprintf("%s-%03d-%s", strings.ToUpper(kindPrefix(kind)), ubsID, suffix)
}
