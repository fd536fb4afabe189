package services

import (
	"context"
	"fmt"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/policy"
	"github.com/diewo77/go-workshop/internal/query"
	"github.com/diewo77/go-workshop/internal/rules"
	"github.com/diewo77/go-workshop/internal/store"
	"github.com/diewo77/go-workshop/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProductInput is the caller-settable part of a product.
type ProductInput struct {
	Name        string             `json:"name"`
	Type        models.ProductType `json:"type"`
	Category    string             `json:"category"`
	Quantity    int                `json:"quantity"`
	UnitPrice   float64            `json:"unit_price"`
	MinStock    int                `json:"min_stock"`
	Brand       string             `json:"brand"`
	Description string             `json:"description"`
}

// ProductPatch updates only the non-nil fields.
type ProductPatch struct {
	Name        *string             `json:"name"`
	Type        *models.ProductType `json:"type"`
	Category    *string             `json:"category"`
	Quantity    *int                `json:"quantity"`
	UnitPrice   *float64            `json:"unit_price"`
	MinStock    *int                `json:"min_stock"`
	Brand       *string             `json:"brand"`
	Description *string             `json:"description"`
}

type ProductService struct {
	base
	repo *store.Repository[models.Product]
}

func NewProductService(d Deps) *ProductService {
	b := newBase(d)
	return &ProductService{base: b, repo: store.NewRepository[models.Product](b.DB, store.OrderBy("name ASC"))}
}

func validateProduct(in ProductInput) error {
	amounts := make(validation.Violations)
	validation.NonNegativeInt("quantity", in.Quantity, amounts)
	validation.NonNegativeFloat("unit_price", in.UnitPrice, amounts)
	validation.NonNegativeInt("min_stock", in.MinStock, amounts)
	if err := amounts.Err(); err != nil {
		return fmt.Errorf("%w: %w", models.ErrInvalidAmount, err)
	}
	v := make(validation.Violations)
	validation.Required("name", in.Name, v)
	validation.OneOf("type", in.Type.Valid(), v)
	if err := v.Err(); err != nil {
		return fmt.Errorf("%w: %w", models.ErrValidation, err)
	}
	return nil
}

// List returns the products matching f, ordered by name.
func (s *ProductService) List(ctx context.Context, actorID string, f query.Filter) ([]models.Product, error) {
	if _, err := s.Gate.Authorize(ctx, actorID, policy.ResourceProduct, policy.ActionList); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.Products(items, f), nil
}

func (s *ProductService) Get(ctx context.Context, actorID, id string) (*models.Product, error) {
	if _, err := s.Gate.Authorize(ctx, actorID, policy.ResourceProduct, policy.ActionView); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Create adds a product to the inventory.
func (s *ProductService) Create(ctx context.Context, actorID string, in ProductInput) (*models.Product, error) {
	actor, err := s.Gate.Authorize(ctx, actorID, policy.ResourceProduct, policy.ActionCreate)
	if err != nil {
		return nil, s.done(models.ActionAddProduct, nil, err)
	}
	if err := validateProduct(in); err != nil {
		return nil, s.done(models.ActionAddProduct, actor, err)
	}

	p := &models.Product{
		Name:          in.Name,
		Type:          in.Type,
		Category:      in.Category,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		MinStock:      in.MinStock,
		Brand:         in.Brand,
		Description:   in.Description,
		LastUpdatedBy: actor.ID,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := s.repo.WithTx(tx).Insert(ctx, p)
		if err != nil {
			return err
		}
		return s.record(ctx, tx, actor, models.ActionAddProduct, models.EntityProduct, id, "Added product: "+p.Name)
	})
	if err != nil {
		return nil, s.done(models.ActionAddProduct, actor, err)
	}
	_ = s.done(models.ActionAddProduct, actor, nil, zap.String("product", p.ID))
	return p, nil
}

// Update applies patch to the product with id.
func (s *ProductService) Update(ctx context.Context, actorID, id string, patch ProductPatch) (*models.Product, error) {
	actor, err := s.Gate.Authorize(ctx, actorID, policy.ResourceProduct, policy.ActionUpdate)
	if err != nil {
		return nil, s.done(models.ActionUpdateProduct, nil, err)
	}

	var out *models.Product
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		p, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		in := ProductInput{
			Name: p.Name, Type: p.Type, Category: p.Category, Quantity: p.Quantity,
			UnitPrice: p.UnitPrice, MinStock: p.MinStock, Brand: p.Brand, Description: p.Description,
		}
		applyProductPatch(&in, patch)
		if err := validateProduct(in); err != nil {
			return err
		}
		fields := map[string]any{
			"name":            in.Name,
			"type":            in.Type,
			"category":        in.Category,
			"quantity":        in.Quantity,
			"unit_price":      in.UnitPrice,
			"min_stock":       in.MinStock,
			"brand":           in.Brand,
			"description":     in.Description,
			"last_updated_by": actor.ID,
		}
		if _, err := repo.Update(ctx, id, fields); err != nil {
			return err
		}
		if err := s.record(ctx, tx, actor, models.ActionUpdateProduct, models.EntityProduct, id, "Updated product: "+in.Name); err != nil {
			return err
		}
		out, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.done(models.ActionUpdateProduct, actor, err)
	}
	_ = s.done(models.ActionUpdateProduct, actor, nil, zap.String("product", id))
	return out, nil
}

func applyProductPatch(in *ProductInput, p ProductPatch) {
	if p.Name != nil {
		in.Name = *p.Name
	}
	if p.Type != nil {
		in.Type = *p.Type
	}
	if p.Category != nil {
		in.Category = *p.Category
	}
	if p.Quantity != nil {
		in.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		in.UnitPrice = *p.UnitPrice
	}
	if p.MinStock != nil {
		in.MinStock = *p.MinStock
	}
	if p.Brand != nil {
		in.Brand = *p.Brand
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
}

// Delete removes the product with id. Existing job card lines keep their
// snapshot of name and price.
func (s *ProductService) Delete(ctx context.Context, actorID, id string) error {
	actor, err := s.Gate.Authorize(ctx, actorID, policy.ResourceProduct, policy.ActionDelete)
	if err != nil {
		return s.done(models.ActionDeleteProduct, nil, err)
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		p, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if _, err := repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.record(ctx, tx, actor, models.ActionDeleteProduct, models.EntityProduct, id, "Deleted product: "+p.Name)
	})
	return s.done(models.ActionDeleteProduct, actor, err, zap.String("product", id))
}

// LowStock returns products at or below their minimum stock.
func (s *ProductService) LowStock(ctx context.Context, actorID string) ([]models.Product, error) {
	items, err := s.List(ctx, actorID, query.Filter{})
	if err != nil {
		return nil, err
	}
	out := items[:0:0]
	for _, p := range items {
		if rules.NeedsRestock(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
