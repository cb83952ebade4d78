// Package repository is the single data-access layer of the service. Every
// controller and service reads and writes through a Store.
package repository

import (
	"context"
	"errors"
	"time"

	"resort-backend/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrVersionConflict = errors.New("record was modified concurrently")
	ErrDuplicate       = errors.New("duplicate record")
)

type ReservationFilter struct {
	RoomID     *uint
	CustomerID *uint
	Statuses   []models.ReservationStatus
	// From/To keep reservations whose stay intersects the window.
	From *time.Time
	To   *time.Time
}

type ItemFilter struct {
	ReservationID  *uint
	ReservationIDs []uint
	Statuses       []models.ItemStatus
	Categories     []models.ItemCategory
}

type TransactionFilter struct {
	Type          models.TransactionType
	Status        models.TransactionStatus
	ReservationID *uint
	EventID       *uint
	From          *time.Time
	To            *time.Time
}

type AuditFilter struct {
	Entity   string
	EntityID uint
	Limit    int
}

// Store is implemented by GormStore (MySQL/Postgres) and MemoryStore.
// Update* methods compare the caller's Version with the stored one and
// return ErrVersionConflict on mismatch; on success the version is bumped.
type Store interface {
	// WithinTx runs fn atomically: either every write made through tx is
	// kept or none is.
	WithinTx(ctx context.Context, fn func(tx Store) error) error

	ListRooms(ctx context.Context) ([]models.Room, error)
	GetRoom(ctx context.Context, id uint) (models.Room, error)
	// LockRoom reads a room and holds a row lock on it until the enclosing transaction ends.
	LockRoom(ctx context.Context, id uint) (models.Room, error)
	CreateRoom(ctx context.Context, room *models.Room) error
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id uint) error

	ListReservations(ctx context.Context, f ReservationFilter) ([]models.Reservation, error)
	// GetReservation loads the reservation together with its consumption items.
	GetReservation(ctx context.Context, id uint) (models.Reservation, error)
	// FindCheckedInByAccessCode returns the checked-in reservation holding the code.
	FindCheckedInByAccessCode(ctx context.Context, code string) (models.Reservation, error)
	CreateReservation(ctx context.Context, r *models.Reservation) error
	UpdateReservation(ctx context.Context, r *models.Reservation) error

	ListItems(ctx context.Context, f ItemFilter) ([]models.ConsumptionItem, error)
	GetItem(ctx context.Context, id uint) (models.ConsumptionItem, error)
	CreateItem(ctx context.Context, item *models.ConsumptionItem) error
	UpdateItem(ctx context.Context, item *models.ConsumptionItem) error
	DeleteItem(ctx context.Context, id uint) error

	ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error)
	GetProduct(ctx context.Context, id uint) (models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error

	ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id uint) (models.Transaction, error)
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	UpdateTransaction(ctx context.Context, t *models.Transaction) error

	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, id uint) (models.Event, error)
	CreateEvent(ctx context.Context, e *models.Event) error
	UpdateEvent(ctx context.Context, e *models.Event) error

	ListCustomers(ctx context.Context, query string) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id uint) (models.Customer, error)
	CreateCustomer(ctx context.Context, c *models.Customer) error

	GetAdminByUsername(ctx context.Context, username string) (models.Admin, error)
	CreateAdmin(ctx context.Context, a *models.Admin) error
	CountAdmins(ctx context.Context) (int64, error)

	ListRoles(ctx context.Context) ([]models.Role, error)
	GetRoleByName(ctx context.Context, name string) (models.Role, error)
	CreateRole(ctx context.Context, r *models.Role) error
	SetRolePermissions(ctx context.Context, roleID uint, permissions []string) error
	AddRoleMember(ctx context.Context, roleID, adminID uint) error
	RolesForAdmin(ctx context.Context, adminID uint) ([]models.Role, error)

	GetHotelSetting(ctx context.Context) (models.HotelSetting, error)
	SaveHotelSetting(ctx context.Context, h *models.HotelSetting) error

	CreateAuditLog(ctx context.Context, l *models.AuditLog) error
	ListAuditLogs(ctx context.Context, f AuditFilter) ([]models.AuditLog, error)
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
