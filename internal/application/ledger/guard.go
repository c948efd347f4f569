package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
)

// KeyGuard exclusión mutua por clave (bodega, parte). Serializa las
// operaciones que tocan la misma clave; claves disjuntas avanzan en paralelo.
//
// La adquisición es bloqueante pero acotada: pasado el timeout configurado la
// operación falla con LockTimeoutError sin haber escrito nada. Para traslados
// (dos claves) los candados se toman siempre en orden lexicográfico de clave
// compuesta; dos traslados en sentidos opuestos entre el mismo par de bodegas
// no pueden interbloquearse.
//
// El candado se sostiene solo durante validar-stock -> append -> actualizar
// saldo. Nunca a través de interacción con el usuario ni I/O externo ajeno a
// la transacción de DB.
type KeyGuard struct {
	timeout time.Duration

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	// ch con capacidad 1: enviar adquiere el candado, recibir lo libera.
	ch   chan struct{}
	refs int
}

// NewKeyGuard construye el guard con la espera máxima por candado.
func NewKeyGuard(timeout time.Duration) *KeyGuard {
	return &KeyGuard{timeout: timeout, locks: make(map[string]*keyLock)}
}

// LockKey clave compuesta canónica de un candado.
func LockKey(warehouseID, partID string) string {
	return warehouseID + "/" + partID
}

// WithLock ejecuta fn con el candado de (bodega, parte) tomado.
func (g *KeyGuard) WithLock(ctx context.Context, warehouseID, partID string, fn func() error) error {
	return g.withKeys(ctx, []string{LockKey(warehouseID, partID)}, fn)
}

// WithTransferLock toma los candados de origen y destino (misma parte) en
// orden canónico y ejecuta fn.
func (g *KeyGuard) WithTransferLock(ctx context.Context, fromWarehouseID, toWarehouseID, partID string, fn func() error) error {
	keys := []string{
		LockKey(fromWarehouseID, partID),
		LockKey(toWarehouseID, partID),
	}
	sort.Strings(keys)
	return g.withKeys(ctx, keys, fn)
}

func (g *KeyGuard) withKeys(ctx context.Context, keys []string, fn func() error) error {
	acquired := make([]string, 0, len(keys))
	defer func() {
		// Liberar en orden inverso a la adquisición
		for i := len(acquired) - 1; i >= 0; i-- {
			g.release(acquired[i])
		}
	}()

	for _, k := range keys {
		if err := g.acquire(ctx, k); err != nil {
			return err
		}
		acquired = append(acquired, k)
	}
	return fn()
}

// acquire toma el candado de la clave o falla con LockTimeoutError.
func (g *KeyGuard) acquire(ctx context.Context, key string) error {
	g.mu.Lock()
	kl, ok := g.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		g.locks[key] = kl
	}
	kl.refs++
	g.mu.Unlock()

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case kl.ch <- struct{}{}:
		return nil
	case <-timer.C:
		g.unref(key)
		return &domain.LockTimeoutError{Key: key, Wait: g.timeout}
	case <-ctx.Done():
		g.unref(key)
		return ctx.Err()
	}
}

func (g *KeyGuard) release(key string) {
	g.mu.Lock()
	kl := g.locks[key]
	g.mu.Unlock()
	<-kl.ch
	g.unref(key)
}

// unref descuenta una referencia y borra la entrada cuando nadie la usa, para
// que el mapa no crezca con cada clave histórica.
func (g *KeyGuard) unref(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	kl, ok := g.locks[key]
	if !ok {
		return
	}
	kl.refs--
	if kl.refs <= 0 {
		delete(g.locks, key)
	}
}
