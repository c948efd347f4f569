package ledger_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
)

const (
	whA    = "wh-a"
	whB    = "wh-b"
	partID = "part-1"
)

func tx(txType, from, to, qty string) *entity.InventoryTransaction {
	return &entity.InventoryTransaction{
		Type:            txType,
		PartID:          partID,
		Quantity:        quantity.MustParse(qty),
		FromWarehouseID: from,
		ToWarehouseID:   to,
		Timestamp:       time.Now().UTC(),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Delta por tipo de transacción
// ──────────────────────────────────────────────────────────────────────────────

func TestDelta_PorTipo(t *testing.T) {
	cases := []struct {
		name      string
		tx        *entity.InventoryTransaction
		warehouse string
		want      string
	}{
		{"creación suma en destino", tx(entity.TxTypeCreation, "", whA, "10.000"), whA, "10.000"},
		{"creación no toca otra bodega", tx(entity.TxTypeCreation, "", whA, "10.000"), whB, "0.000"},
		{"consumo resta en origen", tx(entity.TxTypeConsumption, whA, "", "2.500"), whA, "-2.500"},
		{"traslado resta en origen", tx(entity.TxTypeTransfer, whA, whB, "4.250"), whA, "-4.250"},
		{"traslado suma en destino", tx(entity.TxTypeTransfer, whA, whB, "4.250"), whB, "4.250"},
		{"ajuste positivo", tx(entity.TxTypeAdjustment, "", whA, "1.000"), whA, "1.000"},
		{"ajuste negativo", tx(entity.TxTypeAdjustment, "", whA, "-3.125"), whA, "-3.125"},
		{"ajuste no toca otra bodega", tx(entity.TxTypeAdjustment, "", whA, "-3.125"), whB, "0.000"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ledger.Delta(tc.tx, tc.warehouse).String())
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Recompute — pliegue completo del historial
// ──────────────────────────────────────────────────────────────────────────────

func TestRecompute_HistorialMixto(t *testing.T) {
	history := []*entity.InventoryTransaction{
		tx(entity.TxTypeCreation, "", whA, "100.000"),
		tx(entity.TxTypeTransfer, whA, whB, "30.000"),
		tx(entity.TxTypeConsumption, whA, "", "12.500"),
		tx(entity.TxTypeAdjustment, "", whA, "-0.500"),
		tx(entity.TxTypeCreation, "", whB, "5.250"),
	}

	assert.Equal(t, "57.000", ledger.Recompute(history, whA, partID).String())
	assert.Equal(t, "35.250", ledger.Recompute(history, whB, partID).String())
}

func TestRecompute_IgnoraOtrasPartes(t *testing.T) {
	otra := tx(entity.TxTypeCreation, "", whA, "999.000")
	otra.PartID = "part-otra"

	history := []*entity.InventoryTransaction{
		tx(entity.TxTypeCreation, "", whA, "10.000"),
		otra,
	}
	assert.Equal(t, "10.000", ledger.Recompute(history, whA, partID).String())
}

// Los ajustes del motor de conciliación corrigen el saldo materializado, no el
// stock derivado: el recómputo debe omitirlos para no divergir justo después
// de cada corrección.
func TestRecompute_OmiteAjustesDeConciliacion(t *testing.T) {
	correccion := tx(entity.TxTypeAdjustment, "", whA, "-50.000")
	correccion.Reconciliation = true

	history := []*entity.InventoryTransaction{
		tx(entity.TxTypeCreation, "", whA, "80.000"),
		correccion,
	}
	assert.Equal(t, "80.000", ledger.Recompute(history, whA, partID).String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Equivalencia incremental vs recómputo total
// ──────────────────────────────────────────────────────────────────────────────

// Propiedad central del motor: aplicar cada transacción en O(1) sobre el saldo
// previo produce exactamente el mismo resultado que plegar el historial
// completo, para cualquier secuencia.
func TestApplyYRecompute_SonEquivalentes(t *testing.T) {
	rng := rand.New(rand.NewSource(42)) // semilla fija: fallo reproducible

	for seq := 0; seq < 50; seq++ {
		t.Run(fmt.Sprintf("secuencia_%02d", seq), func(t *testing.T) {
			var history []*entity.InventoryTransaction
			incremental := map[string]quantity.Quantity{whA: quantity.Zero, whB: quantity.Zero}

			for i := 0; i < 200; i++ {
				history = append(history, randomTx(rng))
				last := history[len(history)-1]
				for wh := range incremental {
					incremental[wh] = ledger.Apply(incremental[wh], last, wh)
				}
			}

			for wh, got := range incremental {
				want := ledger.Recompute(history, wh, partID)
				require.True(t, got.Equal(want),
					"bodega %s: incremental %s != recómputo %s", wh, got, want)
			}
		})
	}
}

func randomTx(rng *rand.Rand) *entity.InventoryTransaction {
	// Cantidades con hasta 3 decimales, de 0.001 a 99.999
	qty := quantity.MustParse(fmt.Sprintf("%d.%03d", rng.Intn(100), rng.Intn(1000)))

	switch rng.Intn(4) {
	case 0:
		return tx(entity.TxTypeCreation, "", pick(rng), qty.String())
	case 1:
		return tx(entity.TxTypeConsumption, pick(rng), "", qty.String())
	case 2:
		from := pick(rng)
		to := whB
		if from == whB {
			to = whA
		}
		return tx(entity.TxTypeTransfer, from, to, qty.String())
	default:
		adj := qty
		if rng.Intn(2) == 0 {
			adj = adj.Neg()
		}
		return tx(entity.TxTypeAdjustment, "", pick(rng), adj.String())
	}
}

func pick(rng *rand.Rand) string {
	if rng.Intn(2) == 0 {
		return whA
	}
	return whB
}
