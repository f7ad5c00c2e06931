// Package memory implementa todos los repositorios del ledger en memoria, con la misma
// semántica transaccional que Postgres (snapshot + rollback). Se usa en tests y con
// STORE_DRIVER=memory.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

// Store estado completo protegido por un único mutex. Run lo toma en exclusiva durante
// toda la transacción, así que dos escritores nunca se intercalan.
type Store struct {
	mu sync.RWMutex
	st state
}

type state struct {
	products  map[string]entity.Product
	movements []entity.MovementRecord // orden de inserción
	loans     map[string]entity.LoanItem
	loanOrder []string
	customers map[string]entity.Customer
	suppliers map[string]entity.Supplier
	users     map[string]string // id → nombre
}

// New crea un store vacío.
func New() *Store {
	return &Store{st: state{
		products:  make(map[string]entity.Product),
		loans:     make(map[string]entity.LoanItem),
		customers: make(map[string]entity.Customer),
		suppliers: make(map[string]entity.Supplier),
		users:     make(map[string]string),
	}}
}

func (s state) clone() state {
	c := state{
		products:  make(map[string]entity.Product, len(s.products)),
		movements: append([]entity.MovementRecord(nil), s.movements...),
		loans:     make(map[string]entity.LoanItem, len(s.loans)),
		loanOrder: append([]string(nil), s.loanOrder...),
		customers: s.customers,
		suppliers: s.suppliers,
		users:     s.users,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.loans {
		c.loans[k] = v
	}
	return c
}

// Run ejecuta fn con repositorios atados a la transacción. Si fn falla o entra en pánico,
// o el contexto se canceló antes del commit, se restaura el snapshot tomado al inicio.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, tx ports.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	defer func() {
		if r := recover(); r != nil {
			s.st = snapshot
			panic(r)
		}
	}()
	v := view{s: s, inTx: true}
	err := fn(ctx, ports.TxRepos{
		Movements: &MovementRepo{view: v},
		Products:  &ProductRepo{view: v},
		Loans:     &LoanRepo{view: v},
	})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// view decide si hay que tomar el mutex: dentro de Run ya está tomado.
type view struct {
	s    *Store
	inTx bool
}

func (v view) read() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.RLock()
	return v.s.mu.RUnlock
}

func (v view) write() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

// Products repositorio de stock fuera de transacción (lecturas).
func (s *Store) Products() *ProductRepo { return &ProductRepo{view: view{s: s}} }

// Movements repositorio del ledger fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{view: view{s: s}} }

// Transactions vista agrupada.
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{view: view{s: s}} }

// Loans repositorio de préstamos fuera de transacción.
func (s *Store) Loans() *LoanRepo { return &LoanRepo{view: view{s: s}} }

// Customers lectura de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{view: view{s: s}} }

// Suppliers lectura de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{view: view{s: s}} }

// PutProduct alta o reemplazo de un producto (CRUD del colaborador, seeds y tests).
func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

// PutCustomer alta o reemplazo de un cliente.
func (s *Store) PutCustomer(c entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.customers[c.ID] = c
}

// PutSupplier alta o reemplazo de un proveedor.
func (s *Store) PutSupplier(sp entity.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.suppliers[sp.ID] = sp
}

// PutUser registra el nombre a mostrar de un usuario.
func (s *Store) PutUser(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[id] = name
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

var (
	_ repository.ProductStockRepository = (*ProductRepo)(nil)
	_ repository.MovementRepository     = (*MovementRepo)(nil)
	_ repository.TransactionRepository  = (*TransactionRepo)(nil)
	_ repository.LoanRepository         = (*LoanRepo)(nil)
	_ repository.CustomerRepository     = (*CustomerRepo)(nil)
	_ repository.SupplierRepository     = (*SupplierRepo)(nil)
)
