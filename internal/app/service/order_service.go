package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/internal/app/repository"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
	"github.com/ovenlab/bakehouse-backend/pkg/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidFulfillment = errors.New("invalid fulfillment selection")
)

type OrderService interface {
	CreateOrderFromCart(userID uint, shippingAddress, note string, fulfillmentType model.FulfillmentType) (*model.Order, error)
	GetUserOrders(userID uint, page, limit int) ([]model.Order, int64, error)
	GetOrderByID(userID, orderID uint) (*model.Order, error)
	ListOrders(page, limit int) ([]model.Order, int64, error)
	UpdateOrderStatus(orderID uint, status model.OrderStatus) error
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
	onCartClear func(userID uint)
}

// NewOrderService builds the order service. onCartClear, when non-nil, runs
// after checkout empties the cart.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
	onCartClear func(userID uint),
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		db:          db,
		onCartClear: onCartClear,
	}
}

func (s *orderService) CreateOrderFromCart(userID uint, shippingAddress, note string, fulfillmentType model.FulfillmentType) (*model.Order, error) {
	if fulfillmentType == "" {
		fulfillmentType = model.FulfillmentPickup
	}

	logger.Info("Creating order from cart", map[string]interface{}{
		"user_id":          userID,
		"fulfillment_type": fulfillmentType,
	})

	if fulfillmentType == model.FulfillmentDelivery && shippingAddress == "" {
		logger.Warn("Delivery requires shipping address", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrInvalidFulfillment
	}

	cartLines, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch cart lines", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if len(cartLines) == 0 {
		logger.Warn("Cannot create order: cart is empty", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrEmptyCart
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
		}
	}()

	var (
		totalAmount float64
		orderItems  []model.OrderItem
	)

	for _, line := range cartLines {
		item := model.OrderItem{
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Quantity:  line.Quantity,
		}

		if line.ProductID == nil {
			// Custom line: price and name come from the attributes payload.
			item.Name = attributeString(line.Attributes, "name", "Custom item")
			item.UnitPrice = attributeFloat(line.Attributes, "price", 0)
			item.Subtotal = item.UnitPrice * float64(line.Quantity)
			totalAmount += item.Subtotal
			orderItems = append(orderItems, item)
			continue
		}

		var product model.Product
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, *line.ProductID).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product not found during order creation", map[string]interface{}{
					"user_id":    userID,
					"product_id": *line.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to lock product for order", err, map[string]interface{}{
				"product_id": *line.ProductID,
			})
			return nil, err
		}

		if product.StockQuantity < line.Quantity {
			tx.Rollback()
			logger.Warn("Insufficient stock during order creation", map[string]interface{}{
				"user_id":    userID,
				"product_id": product.ID,
				"requested":  line.Quantity,
				"available":  product.StockQuantity,
			})
			return nil, ErrInsufficientStock
		}

		unitPrice := product.Price
		item.Name = product.Name
		if line.VariantID != nil {
			var variant model.ProductVariant
			if err := tx.First(&variant, *line.VariantID).Error; err != nil {
				tx.Rollback()
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrVariantNotFound
				}
				logger.Error("Failed to fetch variant for order", err, map[string]interface{}{
					"variant_id": *line.VariantID,
				})
				return nil, err
			}
			unitPrice += variant.PriceDelta
			item.Name = product.Name + " (" + variant.Name + ")"
		}

		if err := tx.Model(&product).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity)).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to decrement stock", err, map[string]interface{}{
				"product_id": product.ID,
			})
			return nil, err
		}
		if err := tx.Model(&product).
			UpdateColumn("sales_count", gorm.Expr("sales_count + ?", line.Quantity)).Error; err != nil {
			tx.Rollback()
			logger.Error("Failed to increment sales count", err, map[string]interface{}{
				"product_id": product.ID,
			})
			return nil, err
		}

		item.UnitPrice = unitPrice
		item.Subtotal = unitPrice * float64(line.Quantity)
		totalAmount += item.Subtotal
		orderItems = append(orderItems, item)
	}

	order := &model.Order{
		Code:            util.GenerateOrderCode(time.Now()),
		UserID:          userID,
		TotalAmount:     totalAmount,
		Status:          model.OrderStatusPending,
		FulfillmentType: fulfillmentType,
		ShippingAddress: shippingAddress,
		Note:            note,
		Items:           orderItems,
	}

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := tx.Where("user_id = ?", userID).Delete(&model.CartLine{}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to clear cart after order", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	if s.onCartClear != nil {
		s.onCartClear(userID)
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"order_id":     order.ID,
		"code":         order.Code,
		"user_id":      userID,
		"total_amount": totalAmount,
		"item_count":   len(orderItems),
	})
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint, page, limit int) ([]model.Order, int64, error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})
	return s.orderRepo.FindByUserID(userID, page, limit)
}

func (s *orderService) GetOrderByID(userID, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.UserID != userID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"user_id":  userID,
			"order_id": orderID,
			"owner_id": order.UserID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListOrders(page, limit int) ([]model.Order, int64, error) {
	return s.orderRepo.FindAll(page, limit)
}

func (s *orderService) UpdateOrderStatus(orderID uint, status model.OrderStatus) error {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	order.Status = status
	return s.orderRepo.Update(order)
}

func attributeString(attrs model.JSONMap, key, fallback string) string {
	if attrs == nil {
		return fallback
	}
	if v, ok := attrs[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func attributeFloat(attrs model.JSONMap, key string, fallback float64) float64 {
	if attrs == nil {
		return fallback
	}
	if v, ok := attrs[key].(float64); ok {
		return v
	}
	return fallback
}
