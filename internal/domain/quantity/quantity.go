// Package quantity define el tipo de cantidad de precisión fija (3 decimales)
// usado en todo el kardex. El repositorio del que nace este proyecto mezclaba
// float y decimal en las cantidades; aquí la regla es estructural: no existe
// ningún constructor desde float, y toda cantidad que entra por el borde
// (HTTP, DB) pasa por Parse/FromDecimal, que rechazan más de 3 decimales.
package quantity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale cantidad de dígitos fraccionarios admitidos.
const Scale = 3

// Quantity cantidad de inventario con a lo sumo 3 decimales.
// El cero value es una cantidad válida de valor 0.
type Quantity struct {
	d decimal.Decimal
}

// Zero cantidad cero.
var Zero = Quantity{}

// ErrPrecision se retorna cuando una entrada excede los 3 decimales.
type ErrPrecision struct {
	Input string
}

func (e *ErrPrecision) Error() string {
	return fmt.Sprintf("cantidad %q excede %d decimales", e.Input, Scale)
}

// Parse interpreta una cadena decimal ("12.750"). Rechaza con error explícito
// las entradas con más de 3 dígitos fraccionarios significativos; los ceros a
// la derecha no cuentan ("1.2500" equivale a "1.250" y se acepta).
func Parse(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("cantidad inválida %q: %w", s, err)
	}
	if !fitsScale(d) {
		return Zero, &ErrPrecision{Input: s}
	}
	return Quantity{d: d}, nil
}

// FromDecimal valida un decimal ya construido (por ejemplo, leído de la DB).
func FromDecimal(d decimal.Decimal) (Quantity, error) {
	if !fitsScale(d) {
		return Zero, &ErrPrecision{Input: d.String()}
	}
	return Quantity{d: d}, nil
}

// FromInt construye una cantidad entera (sin parte fraccionaria).
func FromInt(n int64) Quantity {
	return Quantity{d: decimal.NewFromInt(n)}
}

// MustParse como Parse pero con panic; solo para constantes y tests.
func MustParse(s string) Quantity {
	q, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return q
}

func fitsScale(d decimal.Decimal) bool {
	if d.Exponent() >= -Scale {
		return true
	}
	// Exponente menor a -3 pero sin dígitos significativos más allá (ej. "1.2500")
	return d.Equal(d.Truncate(Scale))
}

// Add suma dos cantidades.
func (q Quantity) Add(o Quantity) Quantity { return Quantity{d: q.d.Add(o.d)} }

// Sub resta o de q.
func (q Quantity) Sub(o Quantity) Quantity { return Quantity{d: q.d.Sub(o.d)} }

// Neg invierte el signo.
func (q Quantity) Neg() Quantity { return Quantity{d: q.d.Neg()} }

// Abs valor absoluto.
func (q Quantity) Abs() Quantity { return Quantity{d: q.d.Abs()} }

// Cmp devuelve -1, 0 o 1 comparando q contra o.
func (q Quantity) Cmp(o Quantity) int { return q.d.Cmp(o.d) }

// Equal cantidades numéricamente iguales (independiente de la representación).
func (q Quantity) Equal(o Quantity) bool { return q.d.Equal(o.d) }

// LessThan q < o.
func (q Quantity) LessThan(o Quantity) bool { return q.d.LessThan(o.d) }

// GreaterThan q > o.
func (q Quantity) GreaterThan(o Quantity) bool { return q.d.GreaterThan(o.d) }

// IsZero cantidad igual a cero.
func (q Quantity) IsZero() bool { return q.d.IsZero() }

// IsPositive cantidad estrictamente mayor que cero.
func (q Quantity) IsPositive() bool { return q.d.IsPositive() }

// IsNegative cantidad estrictamente menor que cero.
func (q Quantity) IsNegative() bool { return q.d.IsNegative() }

// IsWhole no tiene parte fraccionaria (relevante para partes CONSUMABLE).
func (q Quantity) IsWhole() bool { return q.d.Equal(q.d.Truncate(0)) }

// Decimal expone el decimal subyacente, para persistencia (pgx registra el
// codec NUMERIC<->decimal). No usar para aritmética fuera del paquete.
func (q Quantity) Decimal() decimal.Decimal { return q.d }

// String representación canónica con 3 decimales fijos ("12.750").
func (q Quantity) String() string { return q.d.StringFixed(Scale) }

// MarshalJSON serializa como string decimal; nunca como número JSON, para que
// ningún cliente la decodifique a float binario sin darse cuenta.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + q.String() + `"`), nil
}

// UnmarshalJSON acepta string decimal ("12.750") y valida precisión.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}
