package config

import (
	"context"
	"testing"
	"time"

	"resort-backend/logger"
	"resort-backend/repository"
	"resort-backend/services"
)

func TestSeedDatabaseIsRepeatable(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	log := logger.Discard()
	t.Setenv("ADMIN_USERNAME", "admin@resort.local")
	t.Setenv("ADMIN_PASSWORD", "admin123")

	for i := 0; i < 2; i++ {
		if err := SeedDatabase(ctx, store, true, log); err != nil {
			t.Fatalf("seed run %d: %v", i, err)
		}
	}

	roles, _ := store.ListRoles(ctx)
	if len(roles) != len(services.DefaultRolePermissions) {
		t.Fatalf("expected %d roles, got %d", len(services.DefaultRolePermissions), len(roles))
	}
	if n, _ := store.CountAdmins(ctx); n != 1 {
		t.Fatalf("expected one admin, got %d", n)
	}
	rooms, _ := store.ListRooms(ctx)
	if len(rooms) != 4 {
		t.Fatalf("expected 4 demo rooms, got %d", len(rooms))
	}

	res, err := services.NewAuthService(store, "k", time.Hour).Login(ctx, "admin@resort.local", "admin123")
	if err != nil {
		t.Fatalf("seeded owner cannot log in: %v", err)
	}
	if len(res.Permissions) != len(services.AllPermissions) {
		t.Fatalf("owner should hold every permission, got %d", len(res.Permissions))
	}
}
