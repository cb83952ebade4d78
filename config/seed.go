package config

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"resort-backend/logger"
	"resort-backend/models"
	"resort-backend/repository"
	"resort-backend/services"
	"resort-backend/utils"
)

var roleDescriptions = map[string]string{
	"owner":        "System owner with full access",
	"Manager":      "Manager with elevated access",
	"Receptionist": "Front desk operations",
	"Kitchen":      "Kitchen and bar staff",
	"Cleaner":      "Housekeeping access",
}

// SeedDatabase creates the built-in roles and, on an empty install, the owner
// account. Roles that already exist keep whatever permissions were edited in.
func SeedDatabase(ctx context.Context, store repository.Store, demo bool, log *logger.Logger) error {
	// ---------------- Roles ----------------
	names := make([]string, 0, len(services.DefaultRolePermissions))
	for name := range services.DefaultRolePermissions {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		_, err := store.GetRoleByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("load role %s: %w", name, err)
		}
		role := models.Role{Name: name, Description: roleDescriptions[name]}
		if err := store.CreateRole(ctx, &role); err != nil {
			return fmt.Errorf("create role %s: %w", name, err)
		}
		if err := store.SetRolePermissions(ctx, role.ID, services.DefaultRolePermissions[name]); err != nil {
			return fmt.Errorf("grant role %s: %w", name, err)
		}
		log.Info("🔑 role seeded", "role", name)
	}

	// ---------------- Admins ----------------
	count, err := store.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count == 0 {
		username := utils.EnvOrDefault("ADMIN_USERNAME", "admin@resort.local")
		password := utils.EnvOrDefault("ADMIN_PASSWORD", "admin123")
		admin, err := services.NewAdminService(store).Create(ctx, "Admin User", username, password, "owner")
		if err != nil {
			return fmt.Errorf("seed owner: %w", err)
		}
		log.Info("👤 default admin seeded", "username", admin.Username)
	}

	if !demo {
		return nil
	}
	return seedDemo(ctx, store, log)
}

// seedDemo fills an empty install with a few rooms, a menu and the hotel profile.
func seedDemo(ctx context.Context, store repository.Store, log *logger.Logger) error {
	rooms, err := store.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}
	if len(rooms) > 0 {
		log.Info("demo data already present")
		return nil
	}

	// ---------------- Rooms ----------------
	demoRooms := []models.Room{
		{Name: "Chale 1", Type: "Chale", Capacity: 2, Price: decimal.NewFromInt(300), Description: "Garden view"},
		{Name: "Chale 2", Type: "Chale", Capacity: 2, Price: decimal.NewFromInt(300), Description: "Garden view"},
		{Name: "Bangalo 1", Type: "Bangalo", Capacity: 4, Price: decimal.NewFromInt(600), Description: "Sea view, two rooms"},
		{Name: "Suite Master", Type: "Suite", Capacity: 3, Price: decimal.NewFromInt(850), Description: "Private jacuzzi"},
	}
	for i := range demoRooms {
		if err := store.CreateRoom(ctx, &demoRooms[i]); err != nil {
			return fmt.Errorf("seed room %s: %w", demoRooms[i].Name, err)
		}
	}

	// ---------------- Products ----------------
	products := []models.Product{
		{Name: "Caipirinha", Category: models.CategoryBar, Price: decimal.NewFromInt(25), Active: true},
		{Name: "Agua de coco", Category: models.CategoryBar, Price: decimal.NewFromInt(12), Active: true},
		{Name: "Moqueca de peixe", Category: models.CategoryRestaurant, Price: decimal.NewFromInt(140), Active: true},
		{Name: "Cafe da manha no quarto", Category: models.CategoryRoomService, Price: decimal.NewFromInt(60), Active: true},
	}
	for i := range products {
		if err := store.CreateProduct(ctx, &products[i]); err != nil {
			return fmt.Errorf("seed product %s: %w", products[i].Name, err)
		}
	}

	// ---------------- Hotel ----------------
	if _, err := store.GetHotelSetting(ctx); errors.Is(err, repository.ErrNotFound) {
		hotel := models.HotelSetting{
			Name:         "Pousada Mar Azul",
			Email:        "contato@pousadamarazul.com.br",
			Currency:     "BRL",
			CheckInTime:  "14:00",
			CheckOutTime: "12:00",
		}
		if err := store.SaveHotelSetting(ctx, &hotel); err != nil {
			return fmt.Errorf("seed hotel settings: %w", err)
		}
	}

	log.Info("🌴 demo data seeded", "rooms", len(demoRooms), "products", len(products))
	return nil
}
