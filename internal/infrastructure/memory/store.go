// Package memory implementa los repositorios en memoria (STORE_DRIVER=memory y tests).
// Las transacciones se serializan y se revierten restaurando una copia del estado.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Inventario-pos/internal/domain/entity"
	"github.com/jhoicas/Inventario-pos/internal/domain/repository"
)

type stockKey struct {
	productID   string
	warehouseID string
}

type data struct {
	warehouses    map[string]entity.Warehouse
	products      map[string]entity.Product
	stock         map[stockKey]entity.Stock
	movements     []entity.StockMovement
	customers     map[string]entity.Customer
	orders        map[string]entity.Order
	orderItems    []entity.OrderItem
	allocations   []entity.OrderAllocation
	payments      []entity.Payment
	registers     map[string]entity.CashRegister
	cashTxs       []entity.CashTransaction
	notifications map[string]entity.BranchNotification
	responses     map[string]entity.BranchNotificationResponse // por notification id
	transfers     map[string]entity.BranchStockTransfer
}

func newData() *data {
	return &data{
		warehouses:    make(map[string]entity.Warehouse),
		products:      make(map[string]entity.Product),
		stock:         make(map[stockKey]entity.Stock),
		customers:     make(map[string]entity.Customer),
		orders:        make(map[string]entity.Order),
		registers:     make(map[string]entity.CashRegister),
		notifications: make(map[string]entity.BranchNotification),
		responses:     make(map[string]entity.BranchNotificationResponse),
		transfers:     make(map[string]entity.BranchStockTransfer),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSlice[T any](s []T) []T {
	return append([]T(nil), s...)
}

func (d *data) clone() *data {
	return &data{
		warehouses:    cloneMap(d.warehouses),
		products:      cloneMap(d.products),
		stock:         cloneMap(d.stock),
		movements:     cloneSlice(d.movements),
		customers:     cloneMap(d.customers),
		orders:        cloneMap(d.orders),
		orderItems:    cloneSlice(d.orderItems),
		allocations:   cloneSlice(d.allocations),
		payments:      cloneSlice(d.payments),
		registers:     cloneMap(d.registers),
		cashTxs:       cloneSlice(d.cashTxs),
		notifications: cloneMap(d.notifications),
		responses:     cloneMap(d.responses),
		transfers:     cloneMap(d.transfers),
	}
}

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	txMu sync.Mutex   // serializa transacciones y escrituras fuera de tx
	mu   sync.RWMutex // protege d
	d    *data
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{d: newData()}
}

// Repos repositorios fuera de transacción.
func (s *Store) Repos() repository.Repos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) repository.Repos {
	b := base{s: s, inTx: inTx}
	return repository.Repos{
		Warehouses:    &WarehouseRepo{b},
		Products:      &ProductRepo{b},
		Stock:         &StockRepo{b},
		Movements:     &StockMovementRepo{b},
		Customers:     &CustomerRepo{b},
		Orders:        &OrderRepo{b},
		Payments:      &PaymentRepo{b},
		Registers:     &CashRegisterRepo{b},
		Notifications: &BranchNotificationRepo{b},
		Transfers:     &BranchTransferRepo{b},
	}
}

// TxRunner ejecuta callbacks con todo-o-nada sobre el Store.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn con repos transaccionales; si fn falla se restaura el estado previo.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Repos) error) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.RLock()
	snapshot := r.s.d.clone()
	r.s.mu.RUnlock()

	defer func() {
		if p := recover(); p != nil {
			r.s.restore(snapshot)
			panic(p)
		}
		if err != nil {
			r.s.restore(snapshot)
		}
	}()
	return fn(r.s.repos(true))
}

func (s *Store) restore(snapshot *data) {
	s.mu.Lock()
	s.d = snapshot
	s.mu.Unlock()
}

type base struct {
	s    *Store
	inTx bool
}

func (b base) read(fn func(d *data)) {
	b.s.mu.RLock()
	defer b.s.mu.RUnlock()
	fn(b.s.d)
}

func (b base) write(fn func(d *data) error) error {
	if !b.inTx {
		b.s.txMu.Lock()
		defer b.s.txMu.Unlock()
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return fn(b.s.d)
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
