// Package timesheet contiene la política de cálculo de horas trabajadas (servicio de dominio).
// La duración nunca se persiste: se deriva de inicio y fin cada vez que se reporta.
package timesheet

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoundingStep bloque de redondeo: 5 minutos.
const RoundingStep = 300

var (
	stepSeconds = decimal.NewFromInt(RoundingStep)
	hourSeconds = decimal.NewFromInt(3600)
)

// Policy decide si las horas se redondean al bloque de 5 minutos.
// Se configura una sola vez al arrancar y se comparte entre temporizador y reportes.
type Policy struct {
	RoundToStep bool
}

// Hours aplica la política a una duración.
func (p Policy) Hours(elapsed time.Duration) decimal.Decimal {
	return HoursFromSeconds(Seconds(elapsed), p.RoundToStep)
}

// HoursFromSeconds aplica la política a segundos ya calculados (p. ej. por PostgreSQL).
func (p Policy) HoursFromSeconds(seconds decimal.Decimal) decimal.Decimal {
	return HoursFromSeconds(seconds, p.RoundToStep)
}

// Seconds convierte la duración a segundos con precisión de microsegundos.
func Seconds(d time.Duration) decimal.Decimal {
	if d < 0 {
		return decimal.Zero
	}
	return decimal.New(d.Microseconds(), -6)
}

// HoursFromSeconds convierte segundos a horas con 2 decimales.
// Con roundToStep: round(segundos / 300) * 300 antes de dividir por 3600.
// Los empates se resuelven hacia arriba (450 s -> 600 s -> 0.17 h).
func HoursFromSeconds(seconds decimal.Decimal, roundToStep bool) decimal.Decimal {
	if seconds.IsNegative() {
		seconds = decimal.Zero
	}
	if roundToStep {
		seconds = seconds.Div(stepSeconds).Round(0).Mul(stepSeconds)
	}
	return seconds.Div(hourSeconds).Round(2)
}
