// Package memory implementa los puertos de persistencia sobre estructuras en
// memoria. Soporte de pruebas y de entornos de demostración sin PostgreSQL.
package memory

import (
	"sort"
	"sync"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

type balanceKey struct {
	warehouseID string
	partID      string
}

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu sync.Mutex

	transactions  []*entity.InventoryTransaction
	balances      map[balanceKey]entity.InventoryBalance
	warehouses    map[string]entity.Warehouse
	parts         map[string]entity.Part
	machines      map[string]entity.Machine
	organizations map[string]entity.Organization
	discrepancies map[string]entity.Discrepancy
}

func NewStore() *Store {
	return &Store{
		balances:      make(map[balanceKey]entity.InventoryBalance),
		warehouses:    make(map[string]entity.Warehouse),
		parts:         make(map[string]entity.Part),
		machines:      make(map[string]entity.Machine),
		organizations: make(map[string]entity.Organization),
		discrepancies: make(map[string]entity.Discrepancy),
	}
}

func (s *Store) Transactions() repository.TransactionRepository { return &txRepo{s: s} }
func (s *Store) Balances() repository.BalanceRepository         { return &balanceRepo{s: s} }
func (s *Store) Warehouses() repository.WarehouseRepository     { return &warehouseRepo{s: s} }
func (s *Store) Parts() repository.PartRepository               { return &partRepo{s: s} }
func (s *Store) Machines() repository.MachineRepository         { return &machineRepo{s: s} }
func (s *Store) Organizations() repository.OrganizationRepository {
	return &organizationRepo{s: s}
}
func (s *Store) Discrepancies() repository.DiscrepancyRepository { return &discrepancyRepo{s: s} }

// SeedWarehouse / SeedPart / SeedMachine / SeedOrganization siembran datos de
// referencia sin pasar por los casos de uso.
func (s *Store) SeedWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warehouses[w.ID] = w
}

func (s *Store) SeedPart(p entity.Part) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parts[p.ID] = p
}

func (s *Store) SeedMachine(m entity.Machine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machines[m.ID] = m
}

func (s *Store) SeedOrganization(o entity.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.organizations[o.ID] = o
}

// SetBalance sobreescribe el saldo materializado de una clave. Las pruebas de
// conciliación lo usan para simular una caché corrupta.
func (s *Store) SetBalance(b entity.InventoryBalance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[balanceKey{b.WarehouseID, b.PartID}] = b
}

// snapshot / restore respaldan el estado mutable dentro de una transacción.
// El ledger es append-only, así que basta recordar su longitud.
type snapshot struct {
	txLen    int
	balances map[balanceKey]entity.InventoryBalance
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	balances := make(map[balanceKey]entity.InventoryBalance, len(s.balances))
	for k, v := range s.balances {
		balances[k] = v
	}
	return snapshot{txLen: len(s.transactions), balances: balances}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = s.transactions[:snap.txLen]
	s.balances = snap.balances
}

func sortTransactions(txs []*entity.InventoryTransaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
