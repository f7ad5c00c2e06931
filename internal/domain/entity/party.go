package entity

// Supplier proveedor (CRUD externo; el ledger solo lo referencia).
type Supplier struct {
	ID   string
	Name string
}

// Customer cliente (CRUD externo; el ledger solo lo referencia).
type Customer struct {
	ID      string
	Name    string
	TaxID   string
	Phone   string
	Email   string
	Address string
}
