package quantity_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Parse — validación de precisión
// ──────────────────────────────────────────────────────────────────────────────

func TestParse_CantidadesValidas(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.000"},
		{"5", "5.000"},
		{"12.750", "12.750"},
		{"0.001", "0.001"},
		{"-3.5", "-3.500"},
		{"1.2500", "1.250"}, // ceros a la derecha no cuentan como cuarto decimal
		{"1000000", "1000000.000"},
	}
	for _, tc := range cases {
		q, err := quantity.Parse(tc.in)
		require.NoError(t, err, "entrada %q debe aceptarse", tc.in)
		assert.Equal(t, tc.want, q.String())
	}
}

func TestParse_RechazaMasDeTresDecimales(t *testing.T) {
	for _, in := range []string{"0.0001", "1.2345", "-7.0005", "2.00010"} {
		_, err := quantity.Parse(in)
		require.Error(t, err, "entrada %q debe rechazarse", in)

		var pErr *quantity.ErrPrecision
		assert.True(t, errors.As(err, &pErr), "el error debe ser ErrPrecision")
	}
}

func TestParse_RechazaNoNumerico(t *testing.T) {
	for _, in := range []string{"", "abc", "1,5", "1.2.3"} {
		_, err := quantity.Parse(in)
		assert.Error(t, err, "entrada %q debe rechazarse", in)
	}
}

func TestFromDecimal_ValidaPrecision(t *testing.T) {
	ok, err := quantity.FromDecimal(decimal.RequireFromString("8.125"))
	require.NoError(t, err)
	assert.Equal(t, "8.125", ok.String())

	_, err = quantity.FromDecimal(decimal.RequireFromString("8.1255"))
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Aritmética — exacta, sin derivas de float
// ──────────────────────────────────────────────────────────────────────────────

func TestAritmetica_SumaExacta(t *testing.T) {
	// 0.1 + 0.2 en float binario da 0.30000000000000004; aquí debe dar 0.300.
	sum := quantity.MustParse("0.1").Add(quantity.MustParse("0.2"))
	assert.Equal(t, "0.300", sum.String())
	assert.True(t, sum.Equal(quantity.MustParse("0.3")))
}

func TestAritmetica_SumaRepetidaNoDeriva(t *testing.T) {
	paso := quantity.MustParse("0.001")
	total := quantity.Zero
	for i := 0; i < 1000; i++ {
		total = total.Add(paso)
	}
	assert.True(t, total.Equal(quantity.FromInt(1)), "mil veces 0.001 debe ser exactamente 1.000, fue %s", total)
}

func TestAritmetica_SubNegAbs(t *testing.T) {
	a := quantity.MustParse("10.500")
	b := quantity.MustParse("12.000")

	diff := a.Sub(b)
	assert.Equal(t, "-1.500", diff.String())
	assert.True(t, diff.IsNegative())
	assert.Equal(t, "1.500", diff.Abs().String())
	assert.Equal(t, "1.500", diff.Neg().String())
}

func TestComparaciones(t *testing.T) {
	a := quantity.MustParse("1.000")
	b := quantity.MustParse("1.001")

	assert.True(t, a.LessThan(b))
	assert.True(t, b.GreaterThan(a))
	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 0, a.Cmp(quantity.FromInt(1)))
	assert.True(t, quantity.Zero.IsZero())
	assert.True(t, b.IsPositive())
}

func TestIsWhole(t *testing.T) {
	assert.True(t, quantity.FromInt(7).IsWhole())
	assert.True(t, quantity.MustParse("7.000").IsWhole())
	assert.False(t, quantity.MustParse("7.500").IsWhole())
}

// ──────────────────────────────────────────────────────────────────────────────
// JSON — siempre string, nunca número
// ──────────────────────────────────────────────────────────────────────────────

func TestJSON_SerializaComoString(t *testing.T) {
	raw, err := json.Marshal(quantity.MustParse("12.75"))
	require.NoError(t, err)
	assert.Equal(t, `"12.750"`, string(raw))
}

func TestJSON_DeserializaYValida(t *testing.T) {
	var q quantity.Quantity
	require.NoError(t, json.Unmarshal([]byte(`"3.250"`), &q))
	assert.Equal(t, "3.250", q.String())

	assert.Error(t, json.Unmarshal([]byte(`"3.2505"`), &q), "cuarto decimal debe rechazarse")
}
