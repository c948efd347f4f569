package memory

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// ── Ledger ──────────────────────────────────────────────────────────────────

type txRepo struct {
	s *Store
}

func (r *txRepo) Append(tx *entity.InventoryTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.transactions {
		if existing.ID == tx.ID {
			return fmt.Errorf("transaction %s: %w", tx.ID, domain.ErrDuplicate)
		}
	}
	cp := *tx
	r.s.transactions = append(r.s.transactions, &cp)
	return nil
}

func (r *txRepo) GetByID(id string) (*entity.InventoryTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, tx := range r.s.transactions {
		if tx.ID == id {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *txRepo) List(filter repository.TransactionFilter, limit, offset int) ([]*entity.InventoryTransaction, error) {
	r.s.mu.Lock()
	var matched []*entity.InventoryTransaction
	for _, tx := range r.s.transactions {
		if matches(tx, filter) {
			cp := *tx
			matched = append(matched, &cp)
		}
	}
	r.s.mu.Unlock()

	sortTransactions(matched)
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *txRepo) ListByKey(warehouseID, partID string) ([]*entity.InventoryTransaction, error) {
	r.s.mu.Lock()
	var matched []*entity.InventoryTransaction
	for _, tx := range r.s.transactions {
		if tx.PartID != partID || !tx.TouchesWarehouse(warehouseID) {
			continue
		}
		cp := *tx
		matched = append(matched, &cp)
	}
	r.s.mu.Unlock()
	sortTransactions(matched)
	return matched, nil
}

func (r *txRepo) CountByWarehouse(warehouseID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, tx := range r.s.transactions {
		if tx.TouchesWarehouse(warehouseID) {
			n++
		}
	}
	return n, nil
}

func matches(tx *entity.InventoryTransaction, f repository.TransactionFilter) bool {
	if f.OrgID != "" && tx.OrgID != f.OrgID {
		return false
	}
	if f.WarehouseID != "" && !tx.TouchesWarehouse(f.WarehouseID) {
		return false
	}
	if f.PartID != "" && tx.PartID != f.PartID {
		return false
	}
	if f.Type != "" && !strings.EqualFold(tx.Type, f.Type) {
		return false
	}
	if f.MachineID != "" && tx.MachineID != f.MachineID {
		return false
	}
	if f.From != nil && tx.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && tx.Timestamp.After(*f.To) {
		return false
	}
	return true
}

// ── Saldos materializados ───────────────────────────────────────────────────

type balanceRepo struct {
	s *Store
}

func (r *balanceRepo) Get(warehouseID, partID string) (*entity.InventoryBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.balances[balanceKey{warehouseID, partID}]; ok {
		cp := b
		return &cp, nil
	}
	return &entity.InventoryBalance{WarehouseID: warehouseID, PartID: partID}, nil
}

// GetForUpdate en memoria equivale a Get: la exclusión la da el guard de
// claves, no un bloqueo de fila.
func (r *balanceRepo) GetForUpdate(warehouseID, partID string) (*entity.InventoryBalance, error) {
	return r.Get(warehouseID, partID)
}

func (r *balanceRepo) Upsert(balance *entity.InventoryBalance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.balances[balanceKey{balance.WarehouseID, balance.PartID}] = *balance
	return nil
}

func (r *balanceRepo) ListKeys(orgID, warehouseID, partID string) ([]*entity.InventoryBalance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.InventoryBalance
	for key, b := range r.s.balances {
		if warehouseID != "" && key.warehouseID != warehouseID {
			continue
		}
		if partID != "" && key.partID != partID {
			continue
		}
		if orgID != "" {
			w, ok := r.s.warehouses[key.warehouseID]
			if !ok || w.OrgID != orgID {
				continue
			}
		}
		cp := b
		list = append(list, &cp)
	}
	return list, nil
}

// ── Datos de referencia ─────────────────────────────────────────────────────

type warehouseRepo struct {
	s *Store
}

func (r *warehouseRepo) Create(w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *warehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w, ok := r.s.warehouses[id]; ok {
		cp := w
		return &cp, nil
	}
	return nil, nil
}

func (r *warehouseRepo) ListByOrg(orgID string, limit, offset int) ([]*entity.Warehouse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Warehouse
	for _, w := range r.s.warehouses {
		if w.OrgID == orgID {
			cp := w
			list = append(list, &cp)
		}
	}
	return paginate(list, limit, offset), nil
}

func (r *warehouseRepo) Update(w *entity.Warehouse) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.warehouses[w.ID] = *w
	return nil
}

func (r *warehouseRepo) Delete(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.warehouses, id)
	return nil
}

type partRepo struct {
	s *Store
}

func (r *partRepo) Create(p *entity.Part) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.parts {
		if existing.OrgID == p.OrgID && existing.SKU == p.SKU {
			return fmt.Errorf("sku %s: %w", p.SKU, domain.ErrDuplicate)
		}
	}
	r.s.parts[p.ID] = *p
	return nil
}

func (r *partRepo) GetByID(id string) (*entity.Part, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.parts[id]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (r *partRepo) GetBySKU(orgID, sku string) (*entity.Part, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.parts {
		if p.OrgID == orgID && p.SKU == sku {
			cp := p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *partRepo) ListByOrg(orgID string, limit, offset int) ([]*entity.Part, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Part
	for _, p := range r.s.parts {
		if p.OrgID == orgID {
			cp := p
			list = append(list, &cp)
		}
	}
	return paginate(list, limit, offset), nil
}

func (r *partRepo) Update(p *entity.Part) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.parts[p.ID] = *p
	return nil
}

type machineRepo struct {
	s *Store
}

func (r *machineRepo) GetByID(id string) (*entity.Machine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.machines[id]; ok {
		cp := m
		return &cp, nil
	}
	return nil, nil
}

type organizationRepo struct {
	s *Store
}

func (r *organizationRepo) GetByID(id string) (*entity.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.organizations[id]; ok {
		cp := o
		return &cp, nil
	}
	return nil, nil
}

// ── Conciliación ────────────────────────────────────────────────────────────

type discrepancyRepo struct {
	s *Store
}

func (r *discrepancyRepo) Create(d *entity.Discrepancy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.discrepancies[d.ID] = *d
	return nil
}

func (r *discrepancyRepo) GetByID(id string) (*entity.Discrepancy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.discrepancies[id]; ok {
		cp := d
		return &cp, nil
	}
	return nil, nil
}

func (r *discrepancyRepo) FindPending(warehouseID, partID string) (*entity.Discrepancy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.discrepancies {
		if d.WarehouseID == warehouseID && d.PartID == partID && d.Status == entity.DiscrepancyPending {
			cp := d
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *discrepancyRepo) ListByOrg(orgID, status string, limit, offset int) ([]*entity.Discrepancy, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Discrepancy
	for _, d := range r.s.discrepancies {
		if d.OrgID != orgID {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		cp := d
		list = append(list, &cp)
	}
	return paginate(list, limit, offset), nil
}

func (r *discrepancyRepo) Update(d *entity.Discrepancy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.discrepancies[d.ID] = *d
	return nil
}

func paginate[T any](list []*T, limit, offset int) []*T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
