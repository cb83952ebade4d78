package services

import (
	"context"
	"strings"

	"resort-backend/models"
	"resort-backend/repository"
)

// AdminService manages staff accounts.
type AdminService struct {
	store repository.Store
}

func NewAdminService(store repository.Store) *AdminService {
	return &AdminService{store: store}
}

// Create registers a staff account and puts it in the named role.
func (s *AdminService) Create(ctx context.Context, fullName, username, password, role string) (models.Admin, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return models.Admin{}, validationf("username is required")
	case len(password) < 6:
		return models.Admin{}, validationf("password must be at least 6 characters")
	case strings.TrimSpace(role) == "":
		return models.Admin{}, validationf("role is required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return models.Admin{}, err
	}
	admin := models.Admin{FullName: strings.TrimSpace(fullName), Username: username, Password: hash}

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		r, err := tx.GetRoleByName(ctx, role)
		if err != nil {
			return storeErr("load role "+role, err)
		}
		if err := tx.CreateAdmin(ctx, &admin); err != nil {
			return storeErr("create admin", err)
		}
		if err := tx.AddRoleMember(ctx, r.ID, admin.ID); err != nil {
			return storeErr("assign role", err)
		}
		return recordAudit(ctx, tx, "admin", admin.ID, "created:"+r.Name, nil, admin)
	})
	if err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}
