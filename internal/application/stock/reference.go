package stock

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefijos de los números de referencia generados automáticamente.
const (
	PrefixIn         = "IN"
	PrefixOut        = "OUT"
	PrefixLoan       = "LOAN"
	PrefixAdjustment = "ADJ"
	PrefixReturn     = "RETURN"
)

// NewReference genera PREFIX-YYYYMMDD-XXXXXX con XXXXXX tomado de un UUID nuevo.
func NewReference(prefix string, at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return prefix + "-" + at.UTC().Format("20060102") + "-" + suffix
}

// ReturnReference referencia sintética de la entrada que registra una devolución.
func ReturnReference(original string) string {
	return PrefixReturn + "-" + original
}
