package services

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"strings"

	"resort-backend/models"
	"resort-backend/repository"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// SettingsService covers the hotel profile and role permissions.
type SettingsService struct {
	store repository.Store
}

func NewSettingsService(store repository.Store) *SettingsService {
	return &SettingsService{store: store}
}

// Hotel returns the saved profile, or defaults when nothing was saved yet.
func (s *SettingsService) Hotel(ctx context.Context) (models.HotelSetting, error) {
	h, err := s.store.GetHotelSetting(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return models.HotelSetting{Name: "Resort", Currency: "BRL", CheckInTime: "14:00", CheckOutTime: "12:00"}, nil
	}
	return h, storeErr("load hotel settings", err)
}

func (s *SettingsService) SaveHotel(ctx context.Context, h models.HotelSetting) (models.HotelSetting, error) {
	h.Name = strings.TrimSpace(h.Name)
	h.Currency = strings.ToUpper(strings.TrimSpace(h.Currency))
	if h.Name == "" {
		return models.HotelSetting{}, validationf("name is required")
	}
	if h.Currency == "" {
		h.Currency = "BRL"
	}
	for _, t := range []string{h.CheckInTime, h.CheckOutTime} {
		if t != "" && !clockPattern.MatchString(t) {
			return models.HotelSetting{}, validationf("invalid time %q, expected HH:MM", t)
		}
	}
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		before, err := tx.GetHotelSetting(ctx)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return storeErr("load hotel settings", err)
		}
		h.ID = before.ID
		if err := tx.SaveHotelSetting(ctx, &h); err != nil {
			return storeErr("save hotel settings", err)
		}
		return recordAudit(ctx, tx, "hotel_setting", h.ID, "updated", before, h)
	})
	if err != nil {
		return models.HotelSetting{}, err
	}
	return h, nil
}

func (s *SettingsService) Roles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return nil, storeErr("list roles", err)
	}
	if roles == nil {
		roles = []models.Role{}
	}
	return roles, nil
}

// SetPermissions replaces a role's grants. Unknown permission names are rejected.
func (s *SettingsService) SetPermissions(ctx context.Context, roleID uint, permissions []string) (models.Role, error) {
	clean := make([]string, 0, len(permissions))
	for _, p := range permissions {
		p = strings.TrimSpace(p)
		if !IsKnownPermission(p) {
			return models.Role{}, validationf("unknown permission %q", p)
		}
		if !slices.Contains(clean, p) {
			clean = append(clean, p)
		}
	}
	slices.Sort(clean)

	var out models.Role
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		roles, err := tx.ListRoles(ctx)
		if err != nil {
			return storeErr("list roles", err)
		}
		idx := slices.IndexFunc(roles, func(r models.Role) bool { return r.ID == roleID })
		if idx < 0 {
			return storeErr("load role", repository.ErrNotFound)
		}
		out = roles[idx]
		before := out.PermissionNames()
		if err := tx.SetRolePermissions(ctx, roleID, clean); err != nil {
			return storeErr("set permissions", err)
		}
		out.Permissions = make([]models.RolePermission, 0, len(clean))
		for _, p := range clean {
			out.Permissions = append(out.Permissions, models.RolePermission{RoleID: roleID, Permission: p})
		}
		return recordAudit(ctx, tx, "role", roleID, "permissions", before, clean)
	})
	if err != nil {
		return models.Role{}, err
	}
	return out, nil
}
