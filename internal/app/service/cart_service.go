package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ovenlab/bakehouse-backend/internal/app/model"
	"github.com/ovenlab/bakehouse-backend/internal/app/repository"
	"github.com/ovenlab/bakehouse-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartLineNotFound = errors.New("cart line not found")
)

const (
	// Quantity bounds for a single cart line.
	MinLineQuantity = 1
	MaxLineQuantity = 999
)

// AddLineInput describes one line to add. LineID is optional: lines carrying
// a product are identified by product/variant, custom lines (cakes with a
// message, hampers) get a random id and never merge.
type AddLineInput struct {
	ProductID  *uint
	VariantID  *uint
	Quantity   int
	Attributes model.JSONMap
	LineID     string
}

type CartService interface {
	GetUserCart(userID uint) ([]model.CartLine, error)
	AddToCart(userID uint, input AddLineInput) ([]model.CartLine, error)
	UpdateQuantity(userID uint, lineID string, quantity int) ([]model.CartLine, error)
	RemoveLine(userID uint, lineID string) ([]model.CartLine, error)
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	onChange    func(userID uint)
}

// NewCartService builds the cart service. onChange, when non-nil, is called
// after every successful mutation with the owning user's id.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	onChange func(userID uint),
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		onChange:    onChange,
	}
}

// ClampQuantity forces q into the [1, 999] line quantity range.
func ClampQuantity(q int) int {
	if q < MinLineQuantity {
		return MinLineQuantity
	}
	if q > MaxLineQuantity {
		return MaxLineQuantity
	}
	return q
}

// deriveLineID builds the stable line identity for product-backed lines.
func deriveLineID(productID, variantID *uint) string {
	switch {
	case productID != nil && variantID != nil:
		return fmt.Sprintf("p%d-v%d", *productID, *variantID)
	case productID != nil:
		return fmt.Sprintf("p%d", *productID)
	case variantID != nil:
		return fmt.Sprintf("v%d", *variantID)
	default:
		return uuid.NewString()
	}
}

func (s *cartService) notifyChanged(userID uint) {
	if s.onChange != nil {
		s.onChange(userID)
	}
}

func (s *cartService) GetUserCart(userID uint) ([]model.CartLine, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	lines, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User cart fetched successfully", map[string]interface{}{
		"user_id": userID,
		"count":   len(lines),
	})
	return lines, nil
}

func (s *cartService) AddToCart(userID uint, input AddLineInput) ([]model.CartLine, error) {
	quantity := ClampQuantity(input.Quantity)

	logger.Info("Adding line to cart", map[string]interface{}{
		"user_id":    userID,
		"product_id": input.ProductID,
		"variant_id": input.VariantID,
		"quantity":   quantity,
	})

	if input.ProductID != nil {
		if _, err := s.productRepo.FindByID(*input.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Cannot add to cart: product not found", map[string]interface{}{
					"user_id":    userID,
					"product_id": *input.ProductID,
				})
				return nil, ErrProductNotFound
			}
			logger.Error("Failed to fetch product", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": *input.ProductID,
			})
			return nil, err
		}
	}

	lineID := input.LineID
	if lineID == "" {
		lineID = deriveLineID(input.ProductID, input.VariantID)
	}

	existing, err := s.cartRepo.FindByUserAndLine(userID, lineID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing cart line", err, map[string]interface{}{
			"user_id": userID,
			"line_id": lineID,
		})
		return nil, err
	}

	if existing != nil {
		merged := ClampQuantity(existing.Quantity + quantity)
		logger.Debug("Merging into existing cart line", map[string]interface{}{
			"cart_line_id": existing.ID,
			"old_qty":      existing.Quantity,
			"new_qty":      merged,
		})
		existing.Quantity = merged
		if err := s.cartRepo.Update(existing); err != nil {
			logger.Error("Failed to update cart line", err, map[string]interface{}{
				"cart_line_id": existing.ID,
			})
			return nil, err
		}
	} else {
		line := &model.CartLine{
			UserID:     userID,
			LineID:     lineID,
			ProductID:  input.ProductID,
			VariantID:  input.VariantID,
			Quantity:   quantity,
			Attributes: input.Attributes,
		}
		if err := s.cartRepo.Create(line); err != nil {
			logger.Error("Failed to create cart line", err, map[string]interface{}{
				"user_id": userID,
				"line_id": lineID,
			})
			return nil, err
		}
		logger.Info("Cart line added successfully", map[string]interface{}{
			"cart_line_id": line.ID,
			"line_id":      lineID,
		})
	}

	s.notifyChanged(userID)
	return s.cartRepo.FindByUserID(userID)
}

// UpdateQuantity sets a line's quantity, clamped to the valid range. A
// missing line is not an error: the current cart is returned unchanged.
func (s *cartService) UpdateQuantity(userID uint, lineID string, quantity int) ([]model.CartLine, error) {
	quantity = ClampQuantity(quantity)

	logger.Info("Updating cart line quantity", map[string]interface{}{
		"user_id":  userID,
		"line_id":  lineID,
		"quantity": quantity,
	})

	line, err := s.cartRepo.FindByUserAndLine(userID, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Cart line not found for update, returning cart as-is", map[string]interface{}{
				"user_id": userID,
				"line_id": lineID,
			})
			s.notifyChanged(userID)
			return s.cartRepo.FindByUserID(userID)
		}
		logger.Error("Failed to fetch cart line", err, map[string]interface{}{
			"user_id": userID,
			"line_id": lineID,
		})
		return nil, err
	}

	line.Quantity = quantity
	if err := s.cartRepo.Update(line); err != nil {
		logger.Error("Failed to update cart line quantity", err, map[string]interface{}{
			"cart_line_id": line.ID,
		})
		return nil, err
	}

	s.notifyChanged(userID)
	return s.cartRepo.FindByUserID(userID)
}

// RemoveLine deletes a line. Removing an absent line is a no-op.
func (s *cartService) RemoveLine(userID uint, lineID string) ([]model.CartLine, error) {
	logger.Info("Removing cart line", map[string]interface{}{
		"user_id": userID,
		"line_id": lineID,
	})

	if err := s.cartRepo.DeleteByLineID(userID, lineID); err != nil {
		logger.Error("Failed to delete cart line", err, map[string]interface{}{
			"user_id": userID,
			"line_id": lineID,
		})
		return nil, err
	}

	s.notifyChanged(userID)
	return s.cartRepo.FindByUserID(userID)
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing user cart", map[string]interface{}{
		"user_id": userID,
	})

	if err := s.cartRepo.DeleteByUserID(userID); err != nil {
		logger.Error("Failed to clear cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return err
	}

	s.notifyChanged(userID)
	logger.Info("User cart cleared", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
