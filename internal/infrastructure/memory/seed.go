package memory

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Seed datos maestros que en producción pertenecen al CRUD de productos y terceros.
type Seed struct {
	Products []struct {
		ID            string          `json:"id"`
		SKU           string          `json:"sku"`
		Name          string          `json:"name"`
		CurrentStock  int64           `json:"current_stock"`
		MinStockLevel int64           `json:"min_stock_level"`
		MaxStockLevel int64           `json:"max_stock_level"`
		UnitPrice     decimal.Decimal `json:"unit_price"`
	} `json:"products"`
	Customers []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		TaxID   string `json:"tax_id"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
		Address string `json:"address"`
	} `json:"customers"`
	Suppliers []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"suppliers"`
	Users []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"users"`
}

// LoadSeed carga el JSON de r en el store. Un producto con stock negativo o sin id
// invalida todo el archivo.
func (s *Store) LoadSeed(r io.Reader) (int, error) {
	var seed Seed
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return 0, fmt.Errorf("seed: decodificar: %w", err)
	}
	for i, p := range seed.Products {
		if p.ID == "" || p.CurrentStock < 0 {
			return 0, fmt.Errorf("seed: products[%d]: id requerido y current_stock >= 0", i)
		}
	}
	for _, p := range seed.Products {
		s.PutProduct(entity.Product{
			ID:            p.ID,
			SKU:           p.SKU,
			Name:          p.Name,
			CurrentStock:  p.CurrentStock,
			MinStockLevel: p.MinStockLevel,
			MaxStockLevel: p.MaxStockLevel,
			UnitPrice:     p.UnitPrice,
		})
	}
	for _, c := range seed.Customers {
		s.PutCustomer(entity.Customer{ID: c.ID, Name: c.Name, TaxID: c.TaxID, Phone: c.Phone, Email: c.Email, Address: c.Address})
	}
	for _, sp := range seed.Suppliers {
		s.PutSupplier(entity.Supplier{ID: sp.ID, Name: sp.Name})
	}
	for _, u := range seed.Users {
		s.PutUser(u.ID, u.Name)
	}
	return len(seed.Products), nil
}

// LoadSeedFile abre path y lo carga con LoadSeed.
func (s *Store) LoadSeedFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	defer f.Close()
	return s.LoadSeed(f)
}
