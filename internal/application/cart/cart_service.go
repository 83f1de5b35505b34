package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	cartdomain "github.com/shop/backend/internal/domain/cart"
	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// Owner identifies whose cart an operation targets: an authenticated user
// or an anonymous session.
type Owner struct {
	UserID     *uuid.UUID
	SessionKey string
}

// CartService manages shopping carts. Stock validation here uses plain,
// non-locking reads, so a displayed cart is never a reservation; the commit
// path revalidates everything under lock.
type CartService struct {
	carts    cartdomain.CartRepository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a cart service
func NewCartService(carts cartdomain.CartRepository, products catalog.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, logger: logger}
}

// GetCart returns the owner's cart, creating an empty one when absent
func (s *CartService) GetCart(ctx context.Context, owner Owner) (*CartResponse, error) {
	c, err := s.findOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c)
}

// AddItem validates the selection against the catalog and adds it
func (s *CartService) AddItem(ctx context.Context, owner Owner, req AddItemRequest) (*CartResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, shared.ErrProductNotFound
	}

	if req.VariantID != nil {
		variant, err := s.products.FindVariantByID(ctx, *req.VariantID)
		if err != nil {
			return nil, err
		}
		if variant.ProductID != product.ID {
			return nil, shared.ErrVariantNotFound
		}
		if !variant.HasStock(req.Quantity) {
			variant.Product = product
			return nil, variant.CheckStock(req.Quantity)
		}
	} else if !product.HasAvailableStock(req.Quantity) {
		return nil, shared.ErrInsufficientStock
	}

	c, err := s.findOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := c.AddItem(req.ProductID, req.VariantID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c)
}

// UpdateItem replaces a cart line's quantity
func (s *CartService) UpdateItem(ctx context.Context, owner Owner, itemID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	c, err := s.findOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c)
}

// RemoveItem deletes a line from the cart
func (s *CartService) RemoveItem(ctx context.Context, owner Owner, itemID uuid.UUID) (*CartResponse, error) {
	c, err := s.findOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.carts.DeleteItems(ctx, c.ID, []uuid.UUID{itemID}); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, c)
}

// Clear empties the owner's cart, typically after checkout
func (s *CartService) Clear(ctx context.Context, owner Owner) error {
	c, err := s.find(ctx, owner)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	itemIDs := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		itemIDs = append(itemIDs, item.ID)
	}
	c.Clear()
	if len(itemIDs) > 0 {
		if err := s.carts.DeleteItems(ctx, c.ID, itemIDs); err != nil {
			return err
		}
	}
	return s.carts.Save(ctx, c)
}

func (s *CartService) find(ctx context.Context, owner Owner) (*cartdomain.Cart, error) {
	if owner.UserID != nil {
		return s.carts.FindActiveForUser(ctx, *owner.UserID)
	}
	if owner.SessionKey == "" {
		return nil, shared.ErrInvalidInput
	}
	return s.carts.FindActiveForSession(ctx, owner.SessionKey)
}

func (s *CartService) findOrCreate(ctx context.Context, owner Owner) (*cartdomain.Cart, error) {
	c, err := s.find(ctx, owner)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if owner.UserID != nil {
		c, err = cartdomain.NewCartForUser(*owner.UserID)
	} else {
		c, err = cartdomain.NewCartForSession(owner.SessionKey)
	}
	if err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// toResponse prices the cart against the current catalog. Items whose
// product disappeared or went inactive are shown unavailable at zero price
// rather than dropped.
func (s *CartService) toResponse(ctx context.Context, c *cartdomain.Cart) (*CartResponse, error) {
	items := make([]CartItemResponse, 0, len(c.Items))
	subtotal := decimal.Zero

	for i := range c.Items {
		item := &c.Items[i]
		resp := CartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: "0.00",
			Subtotal:  "0.00",
		}

		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil || !product.Active {
			items = append(items, resp)
			continue
		}

		resp.ProductName = product.Name
		resp.Available = product.HasAvailableStock(item.Quantity)
		if item.VariantID != nil {
			variant, err := s.products.FindVariantByID(ctx, *item.VariantID)
			if err == nil {
				variant.Product = product
				resp.ProductName = variant.DisplayName()
				resp.Available = variant.HasStock(item.Quantity)
			} else {
				resp.Available = false
			}
		}

		unitPrice := product.BasePriceMoney()
		lineTotal := unitPrice.MultiplyByInt(int64(item.Quantity))
		resp.UnitPrice = unitPrice.StringFixed(2)
		resp.Subtotal = lineTotal.StringFixed(2)
		subtotal = subtotal.Add(lineTotal.Amount())
		items = append(items, resp)
	}

	return &CartResponse{
		ID:            c.ID,
		TotalQuantity: c.TotalQuantity(),
		Subtotal:      valueobject.NewMoneyARS(subtotal).StringFixed(2),
		Items:         items,
	}, nil
}
