package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Prefijos de número de documento legible.
const (
	orderNoPrefix = "CG" // orden de compra
	lossNoPrefix  = "BS" // merma
)

// NewOrderNo genera un número de orden de compra legible, p.ej. CG202608301432A1B2C3D4.
// La unicidad real la garantiza el índice único de la DB; el sufijo aleatorio
// solo evita colisiones entre peticiones del mismo segundo.
func NewOrderNo(now time.Time) string {
	return newDocNo(orderNoPrefix, now)
}

// NewLossNo genera un número de merma legible (BS...).
func NewLossNo(now time.Time) string {
	return newDocNo(lossNoPrefix, now)
}

func newDocNo(prefix string, now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s%s%s", prefix, now.Format("20060102150405"), suffix)
}
