package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"resort-backend/models"
	"resort-backend/repository"
)

type ProductService struct {
	store repository.Store
}

func NewProductService(store repository.Store) *ProductService {
	return &ProductService{store: store}
}

func (s *ProductService) List(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	products, err := s.store.ListProducts(ctx, activeOnly)
	if err != nil {
		return nil, storeErr("list products", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (s *ProductService) Create(ctx context.Context, name string, category models.ItemCategory, price decimal.Decimal) (models.Product, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return models.Product{}, validationf("name is required")
	case !category.Valid():
		return models.Product{}, validationf("unknown category %q", category)
	case price.IsNegative():
		return models.Product{}, validationf("price must not be negative")
	}
	p := models.Product{Name: name, Category: category, Price: price, Active: true}
	if err := s.store.CreateProduct(ctx, &p); err != nil {
		return models.Product{}, storeErr("create product", err)
	}
	return p, nil
}

// SetActive takes a product off the menu or puts it back. Inactive products
// stay on existing bills but can no longer be ordered.
func (s *ProductService) SetActive(ctx context.Context, id uint, active bool) (models.Product, error) {
	var p models.Product
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		p, err = tx.GetProduct(ctx, id)
		if err != nil {
			return storeErr("load product", err)
		}
		if p.Active == active {
			return nil
		}
		before := p
		p.Active = active
		if err := tx.UpdateProduct(ctx, &p); err != nil {
			return storeErr("update product", err)
		}
		return recordAudit(ctx, tx, "product", p.ID, fmt.Sprintf("active:%t", active), before, p)
	})
	if err != nil {
		return models.Product{}, err
	}
	return p, nil
}
