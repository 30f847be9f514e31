// Package order contains domain types for orders, statuses, and pickup slots.
package order

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state reported by the backend.
type Status string

const (
	StatusPending   Status = "pendiente"
	StatusPaid      Status = "pagado"
	StatusPreparing Status = "preparacion"
	StatusReady     Status = "listo"
	StatusCompleted Status = "completado"
	StatusCancelled Status = "cancelado"
)

// Terminal reports whether the status is final. Polling stops here.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Numeric ids the status update endpoint expects in place of names.
var statusIDs = map[Status]int{
	StatusPending:   1,
	StatusPreparing: 2,
	StatusReady:     3,
	StatusCompleted: 4,
	StatusCancelled: 5,
}

// BackendID returns the numeric id of the status for the admin status update
// endpoint. Paid is not a settable status there; it reports false.
func (s Status) BackendID() (int, bool) {
	id, ok := statusIDs[s]
	return id, ok
}

// Slot is a pickup time window offered for today.
type Slot struct {
	ID       int64  `json:"id_horario"`
	Start    string `json:"hora_inicio"`
	End      string `json:"hora_fin"`
	Capacity int    `json:"capacidad"`
}

// StartTime resolves the slot's HH:MM start against the date of now.
func (s Slot) StartTime(now time.Time) (time.Time, error) {
	parts := strings.SplitN(s.Start, ":", 3)
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("malformed slot start %q", s.Start)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed slot start %q", s.Start)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed slot start %q", s.Start)
	}
	return time.Date(now.Year(), now.Month(), now.Day(), hours, minutes, 0, 0, now.Location()), nil
}

// Remaining returns the time left until the slot opens, zero once it has.
func (s Slot) Remaining(now time.Time) (time.Duration, error) {
	start, err := s.StartTime(now)
	if err != nil {
		return 0, err
	}
	d := start.Sub(now)
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

// Line is one product line within an order.
type Line struct {
	ProductID int64           `json:"id_producto"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
}

// Order is an order record as returned by the orders endpoint.
type Order struct {
	ID     int64           `json:"id_pedido"`
	Status Status          `json:"estado"`
	Paid   bool            `json:"pagado"`
	Total  decimal.Decimal `json:"total"`
	Notes  string          `json:"notas"`
	Placed time.Time       `json:"fecha_pedido"`
	Slot   *Slot           `json:"horario"`
	Lines  []Line          `json:"productos"`
}
