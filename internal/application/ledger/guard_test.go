package ledger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Exclusión y paralelismo
// ──────────────────────────────────────────────────────────────────────────────

// Dos operaciones sobre la misma clave jamás corren a la vez.
func TestKeyGuard_SerializaMismaClave(t *testing.T) {
	guard := NewKeyGuard(2 * time.Second)
	ctx := context.Background()

	var dentro int32
	var maxDentro int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := guard.WithLock(ctx, "wh-1", "part-1", func() error {
				n := atomic.AddInt32(&dentro, 1)
				for {
					max := atomic.LoadInt32(&maxDentro)
					if n <= max || atomic.CompareAndSwapInt32(&maxDentro, max, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&dentro, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxDentro),
		"nunca debe haber más de una goroutine dentro de la sección crítica")
}

// Claves disjuntas no se bloquean entre sí.
func TestKeyGuard_ClavesDisjuntasAvanzanEnParalelo(t *testing.T) {
	guard := NewKeyGuard(500 * time.Millisecond)
	ctx := context.Background()

	bloqueado := make(chan struct{})
	suelto := make(chan struct{})

	go func() {
		_ = guard.WithLock(ctx, "wh-1", "part-1", func() error {
			close(bloqueado)
			<-suelto
			return nil
		})
	}()
	<-bloqueado

	// Con (wh-1, part-1) tomado, otra clave debe entrar de inmediato.
	err := guard.WithLock(ctx, "wh-2", "part-1", func() error { return nil })
	assert.NoError(t, err, "clave disjunta no debe esperar")
	close(suelto)
}

// ──────────────────────────────────────────────────────────────────────────────
// Timeout acotado
// ──────────────────────────────────────────────────────────────────────────────

func TestKeyGuard_TimeoutDevuelveLockTimeoutError(t *testing.T) {
	guard := NewKeyGuard(50 * time.Millisecond)
	ctx := context.Background()

	bloqueado := make(chan struct{})
	suelto := make(chan struct{})
	go func() {
		_ = guard.WithLock(ctx, "wh-1", "part-1", func() error {
			close(bloqueado)
			<-suelto
			return nil
		})
	}()
	<-bloqueado
	defer close(suelto)

	err := guard.WithLock(ctx, "wh-1", "part-1", func() error {
		t.Fatal("no debe ejecutarse: el candado está tomado")
		return nil
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLockTimeout), "debe envolver ErrLockTimeout")

	var ltErr *domain.LockTimeoutError
	require.True(t, errors.As(err, &ltErr))
	assert.Equal(t, LockKey("wh-1", "part-1"), ltErr.Key)
}

func TestKeyGuard_ContextoCanceladoAbortaEspera(t *testing.T) {
	guard := NewKeyGuard(10 * time.Second)

	bloqueado := make(chan struct{})
	suelto := make(chan struct{})
	go func() {
		_ = guard.WithLock(context.Background(), "wh-1", "part-1", func() error {
			close(bloqueado)
			<-suelto
			return nil
		})
	}()
	<-bloqueado
	defer close(suelto)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := guard.WithLock(ctx, "wh-1", "part-1", func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados: orden canónico de claves
// ──────────────────────────────────────────────────────────────────────────────

// Dos traslados en sentidos opuestos entre el mismo par de bodegas toman los
// candados en el mismo orden lexicográfico: ninguno puede quedarse con uno y
// esperar eternamente el otro.
func TestKeyGuard_TrasladosOpuestosNoSeInterbloquean(t *testing.T) {
	guard := NewKeyGuard(5 * time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 200)

	for i := 0; i < 100; i++ {
		wg.Add(2)
		idx := i * 2
		go func() {
			defer wg.Done()
			errs[idx] = guard.WithTransferLock(ctx, "wh-a", "wh-b", "part-1", func() error {
				time.Sleep(100 * time.Microsecond)
				return nil
			})
		}()
		go func() {
			defer wg.Done()
			errs[idx+1] = guard.WithTransferLock(ctx, "wh-b", "wh-a", "part-1", func() error {
				time.Sleep(100 * time.Microsecond)
				return nil
			})
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("interbloqueo: los traslados opuestos nunca terminaron")
	}

	for i, err := range errs {
		assert.NoError(t, err, "traslado %d", i)
	}
}

// El mapa de candados no retiene claves que ya nadie usa.
func TestKeyGuard_LiberaEntradasSinUso(t *testing.T) {
	guard := NewKeyGuard(time.Second)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, guard.WithLock(ctx, "wh-1", "part-1", func() error { return nil }))
	}

	guard.mu.Lock()
	defer guard.mu.Unlock()
	assert.Empty(t, guard.locks, "sin operaciones en vuelo el mapa debe quedar vacío")
}
