package services

import (
	"context"
	"net/mail"
	"strings"

	"resort-backend/models"
	"resort-backend/repository"
)

type CustomerService struct {
	store repository.Store
}

func NewCustomerService(store repository.Store) *CustomerService {
	return &CustomerService{store: store}
}

// List searches by name or email; an empty query returns everyone.
func (s *CustomerService) List(ctx context.Context, query string) ([]models.Customer, error) {
	list, err := s.store.ListCustomers(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, storeErr("list customers", err)
	}
	if list == nil {
		list = []models.Customer{}
	}
	return list, nil
}

func (s *CustomerService) Get(ctx context.Context, id uint) (models.Customer, error) {
	c, err := s.store.GetCustomer(ctx, id)
	return c, storeErr("load customer", err)
}

func (s *CustomerService) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	c.ID = 0
	c.FullName = strings.TrimSpace(c.FullName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	if c.FullName == "" {
		return models.Customer{}, validationf("full_name is required")
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return models.Customer{}, validationf("invalid email %q", c.Email)
		}
	}
	switch c.Status {
	case "":
		c.Status = models.CustomerLead
	case models.CustomerLead, models.CustomerClient:
	default:
		return models.Customer{}, validationf("status must be Lead or Client")
	}

	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateCustomer(ctx, &c); err != nil {
			return storeErr("create customer", err)
		}
		return recordAudit(ctx, tx, "customer", c.ID, "created", nil, c)
	})
	return c, err
}
