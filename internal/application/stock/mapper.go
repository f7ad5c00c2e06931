package stock

import (
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

func toMovementResponse(v *repository.MovementView) dto.MovementResponse {
	return dto.MovementResponse{
		ID:              v.ID,
		TransactionID:   v.TransactionID,
		ProductID:       v.ProductID,
		ProductName:     v.ProductName,
		ProductSKU:      v.ProductSKU,
		MovementType:    v.Type,
		Quantity:        v.Quantity,
		UnitPrice:       v.UnitPrice,
		TotalAmount:     v.TotalAmount,
		PreviousStock:   v.PreviousStock,
		NewStock:        v.NewStock,
		ReferenceNumber: v.ReferenceNumber,
		Notes:           v.Notes,
		UserID:          v.UserID,
		UserName:        v.UserName,
		SupplierID:      v.SupplierID,
		SupplierName:    v.SupplierName,
		CustomerID:      v.CustomerID,
		CustomerName:    v.CustomerName,
		IsLoan:          v.IsLoan,
		EntryDate:       v.EntryDate,
		ExitDate:        v.ExitDate,
		CreatedAt:       v.CreatedAt,
	}
}

func toTransactionResponse(s *repository.TransactionSummary) dto.TransactionResponse {
	return dto.TransactionResponse{
		TransactionID:   s.TransactionID,
		ReferenceNumber: s.ReferenceNumber,
		MovementType:    s.Type,
		IsLoan:          s.IsLoan,
		ItemsCount:      s.ItemsCount,
		TotalQuantity:   s.TotalQuantity,
		TotalAmount:     s.TotalAmount,
		SupplierID:      s.SupplierID,
		SupplierName:    s.SupplierName,
		CustomerID:      s.CustomerID,
		CustomerName:    s.CustomerName,
		UserID:          s.UserID,
		UserName:        s.UserName,
		Notes:           s.Notes,
		EntryDate:       s.EntryDate,
		ExitDate:        s.ExitDate,
		CreatedAt:       s.CreatedAt,
	}
}
