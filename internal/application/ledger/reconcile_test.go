package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/quantity"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

func newReconcile(f *fixture) *appledger.ReconcileUseCase {
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	return appledger.NewReconcileUseCase(
		f.register,
		f.store.Transactions(), f.store.Balances(), f.store.Discrepancies(),
		log,
	)
}

// corromperCache sobreescribe el saldo materializado de (whMain, partBulk),
// simulando la deriva que un bug o una intervención manual dejarían.
func corromperCache(f *fixture, stock string) {
	f.store.SetBalance(entity.InventoryBalance{
		WarehouseID:  whMain,
		PartID:       partBulk,
		CurrentStock: quantity.MustParse(stock),
		UpdatedAt:    time.Now().UTC(),
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Detección
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_SinDeriva_NoHallaNada(t *testing.T) {
	f := newFixture(t, false)
	rec := newReconcile(f)

	f.mustRegister(t, creation(partBulk, whMain, "100.000"))
	f.mustRegister(t, consumption(partBulk, whMain, "30.500"))

	found, err := rec.Reconcile(context.Background(), orgID, "", "")
	require.NoError(t, err)
	assert.Empty(t, found, "caché consistente: cero hallazgos")
}

func TestReconcile_CacheCorrupta_RegistraDiscrepancia(t *testing.T) {
	f := newFixture(t, false)
	rec := newReconcile(f)

	// Ledger deriva 69.500; la caché dice 999.000.
	f.mustRegister(t, creation(partBulk, whMain, "100.000"))
	f.mustRegister(t, consumption(partBulk, whMain, "30.500"))
	corromperCache(f, "999.000")

	found, err := rec.Reconcile(context.Background(), orgID, "", "")
	require.NoError(t, err)
	require.Len(t, found, 1)

	d := found[0]
	assert.Equal(t, "999.000", d.CachedStock.String())
	assert.Equal(t, "69.500", d.ComputedStock.String())
	assert.Equal(t, "-929.500", d.Delta.String(), "delta = derivado - caché")
	assert.Equal(t, entity.DiscrepancyPending, d.Status)

	// La detección no corrige nada por sí sola.
	assert.Equal(t, "999.000", f.balance(t, whMain, partBulk))
}

// Dos barridos consecutivos sin transacciones intermedias no duplican el
// hallazgo: el segundo devuelve el mismo registro PENDING.
func TestReconcile_EsIdempotente(t *testing.T) {
	f := newFixture(t, false)
	rec := newReconcile(f)

	f.mustRegister(t, creation(partBulk, whMain, "10.000"))
	corromperCache(f, "50.000")

	primera, err := rec.Reconcile(context.Background(), orgID, "", "")
	require.NoError(t, err)
	require.Len(t, primera, 1)

	segunda, err := rec.Reconcile(context.Background(), orgID, "", "")
	require.NoError(t, err)
	require.Len(t, segunda, 1)
	assert.Equal(t, primera[0].ID, segunda[0].ID, "se reutiliza el hallazgo PENDING")

	pendientes, err := rec.ListDiscrepancies(context.Background(), orgID, entity.DiscrepancyPending, 50, 0)
	require.NoError(t, err)
	assert.Len(t, pendientes, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Corrección con confirmación
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyCorrection_LlevaLaCacheAlValorDerivado(t *testing.T) {
	f := newFixture(t, false)
	rec := newReconcile(f)
	ctx := context.Background()

	f.mustRegister(t, creation(partBulk, whMain, "100.000"))
	f.mustRegister(t, consumption(partBulk, whMain, "30.500"))
	corromperCache(f, "999.000")

	found, err := rec.Reconcile(ctx, orgID, "", "")
	require.NoError(t, err)
	require.Len(t, found, 1)

	correccion, err := rec.ApplyCorrection(ctx, found[0].ID, userID)
	require.NoError(t, err)
	assert.Equal(t, entity.TxTypeAdjustment, correccion.Type)
	assert.Equal(t, "-929.500", correccion.Quantity.String())
	assert.True(t, correccion.Reconciliation, "el ajuste queda marcado como correctivo")
	assert.Equal(t, "DISC-"+found[0].ID, correccion.ReferenceNumber)

	// La caché vuelve al valor derivado del ledger.
	assert.Equal(t, "69.500", f.balance(t, whMain, partBulk))

	// El hallazgo queda APPLIED y enlazado a la transacción correctiva.
	d, err := f.store.Discrepancies().GetByID(found[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DiscrepancyApplied, d.Status)
	assert.Equal(t, correccion.ID, d.CorrectionID)
	assert.Equal(t, userID, d.AppliedBy)
	require.NotNil(t, d.AppliedAt)

	// Y un barrido posterior no encuentra deriva: la corrección cerró el ciclo.
	otra, err := rec.Reconcile(ctx, orgID, "", "")
	require.NoError(t, err)
	assert.Empty(t, otra, "tras corregir, caché y ledger vuelven a coincidir")
}

func TestApplyCorrection_DosVeces_Conflicto(t *testing.T) {
	f := newFixture(t, false)
	rec := newReconcile(f)
	ctx := context.Background()

	f.mustRegister(t, creation(partBulk, whMain, "10.000"))
	corromperCache(f, "12.000")

	found, err := rec.Reconcile(ctx, orgID, "", "")
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = rec.ApplyCorrection(ctx, found[0].ID, userID)
	require.NoError(t, err)

	_, err = rec.ApplyCorrection(ctx, found[0].ID, userID)
	assert.True(t, errors.Is(err, domain.ErrConflict), "una discrepancia ya aplicada no se re-aplica")
}

func TestApplyCorrection_Inexistente_NotFound(t *testing.T) {
	f := newFixture(t, false)
	rec := newReconcile(f)

	_, err := rec.ApplyCorrection(context.Background(), "no-existe", userID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// El ajuste de conciliación no pasa por la regla de stock suficiente: un
// delta negativo grande se aplica aunque "retire" más de lo que el caché
// aparenta tener, porque solo repara la cifra materializada.
func TestApplyCorrection_DeltaNegativoGrande_NoRechazaPorStock(t *testing.T) {
	f := newFixture(t, false)
	rec := newReconcile(f)
	ctx := context.Background()

	// Ledger deriva 5.000; la caché dice 100.000. Delta: -95.000.
	f.mustRegister(t, creation(partBulk, whMain, "5.000"))
	corromperCache(f, "100.000")

	found, err := rec.Reconcile(ctx, orgID, "", "")
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = rec.ApplyCorrection(ctx, found[0].ID, userID)
	require.NoError(t, err)
	assert.Equal(t, "5.000", f.balance(t, whMain, partBulk))
}

// ──────────────────────────────────────────────────────────────────────────────
// Descarte
// ──────────────────────────────────────────────────────────────────────────────

func TestDismiss_DejaRegistroSinCorregir(t *testing.T) {
	f := newFixture(t, false)
	rec := newReconcile(f)
	ctx := context.Background()

	f.mustRegister(t, creation(partBulk, whMain, "10.000"))
	corromperCache(f, "11.000")

	found, err := rec.Reconcile(ctx, orgID, "", "")
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, rec.Dismiss(ctx, found[0].ID, userID, "conteo físico confirma la caché"))

	d, err := f.store.Discrepancies().GetByID(found[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DiscrepancyDismissed, d.Status)
	assert.Contains(t, d.Details, "conteo físico")

	// Descartar no toca el saldo.
	assert.Equal(t, "11.000", f.balance(t, whMain, partBulk))

	// Re-aplicar o re-descartar un hallazgo cerrado es conflicto.
	assert.True(t, errors.Is(rec.Dismiss(ctx, found[0].ID, userID, ""), domain.ErrConflict))
}
