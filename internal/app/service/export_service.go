package service

import (
	"fmt"
	"time"

	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/internal/app/repository"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ExportService builds back-office spreadsheet exports.
type ExportService interface {
	ExportOrders(from, to time.Time) (*excelize.File, error)
	ExportProducts() (*excelize.File, error)
}

type exportService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
}

func NewExportService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
) ExportService {
	return &exportService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// ExportOrders writes every order in [from, to) to a workbook, one row per
// order item.
func (s *exportService) ExportOrders(from, to time.Time) (*excelize.File, error) {
	logger.Info("Exporting orders to spreadsheet", map[string]interface{}{
		"from": from.Format("2006-01-02"),
		"to":   to.Format("2006-01-02"),
	})

	orders, _, err := s.orderRepo.FindAll(0, 0)
	if err != nil {
		logger.Error("Failed to fetch orders for export", err)
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"Order Code", "Date", "Status", "Fulfillment", "Item", "Quantity", "Unit Price", "Subtotal", "Order Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	exported := 0
	for _, order := range orders {
		if order.CreatedAt.Before(from) || !order.CreatedAt.Before(to) {
			continue
		}
		exported++
		for _, item := range order.Items {
			values := []interface{}{
				order.Code,
				order.CreatedAt.Format("2006-01-02 15:04"),
				string(order.Status),
				string(order.FulfillmentType),
				item.Name,
				item.Quantity,
				item.UnitPrice,
				item.Subtotal,
				order.TotalAmount,
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}

	logger.Info("Orders exported", map[string]interface{}{
		"orders": exported,
		"rows":   row - 2,
	})
	return f, nil
}

// ExportProducts writes the full catalog, variants included.
func (s *exportService) ExportProducts() (*excelize.File, error) {
	logger.Info("Exporting products to spreadsheet", nil)

	products, _, err := s.productRepo.FindAll(repository.ProductFilter{})
	if err != nil {
		logger.Error("Failed to fetch products for export", err)
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"ID", "Name", "Slug", "Category", "Price", "Stock", "Active", "Sales", "Variant", "Variant Price Delta"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	writeRow := func(p model.Product, variantName string, delta interface{}) {
		values := []interface{}{
			p.ID, p.Name, p.Slug, string(p.Category), p.Price,
			p.StockQuantity, p.IsActive, p.SalesCount, variantName, delta,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	for _, p := range products {
		if len(p.Variants) == 0 {
			writeRow(p, "", "")
			continue
		}
		for _, v := range p.Variants {
			writeRow(p, v.Name, v.PriceDelta)
		}
	}

	logger.Info("Products exported", map[string]interface{}{
		"products": len(products),
		"rows":     row - 2,
	})
	return f, nil
}

// ExportFilename builds a timestamped download name like
// "orders-20260901-1504.xlsx".
func ExportFilename(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", prefix, at.Format("20060102-1504"))
}
