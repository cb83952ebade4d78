package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resort-backend/models"
)

// GormStore persists through gorm (MySQL or Postgres, depending on the dialector it was opened with).
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{DB: tx})
	})
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isDuplicateKey(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func isDuplicateKey(err error) bool {
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate") || strings.Contains(lower, "unique constraint")
}

// updateVersioned writes every column of model when the stored row still
// carries *version, then bumps it. table is used to tell a stale version
// apart from a missing row.
func (s *GormStore) updateVersioned(ctx context.Context, model any, table string, id uint, version *int) error {
	prev := *version
	*version = prev + 1

	res := s.db(ctx).Model(model).
		Where("version = ?", prev).
		Select("*").
		Omit("id", "created_at", "deleted_at", clause.Associations).
		Updates(model)
	if res.Error != nil {
		*version = prev
		return translate(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	*version = prev
	var count int64
	if err := s.db(ctx).Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrVersionConflict
}

// ---------------------------
// Rooms
// ---------------------------

func (s *GormStore) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.db(ctx).Order("id ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *GormStore) GetRoom(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	err := s.db(ctx).First(&room, id).Error
	return room, translate(err)
}

func (s *GormStore) LockRoom(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	err := s.db(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&room, id).Error
	return room, translate(err)
}

func (s *GormStore) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.Version == 0 {
		room.Version = 1
	}
	return translate(s.db(ctx).Create(room).Error)
}

func (s *GormStore) UpdateRoom(ctx context.Context, room *models.Room) error {
	return s.updateVersioned(ctx, room, "rooms", room.ID, &room.Version)
}

func (s *GormStore) DeleteRoom(ctx context.Context, id uint) error {
	res := s.db(ctx).Delete(&models.Room{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------
// Reservations
// ---------------------------

func (s *GormStore) ListReservations(ctx context.Context, f ReservationFilter) ([]models.Reservation, error) {
	q := s.db(ctx).Model(&models.Reservation{})
	if f.RoomID != nil {
		q = q.Where("room_id = ?", *f.RoomID)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.From != nil {
		q = q.Where("check_out > ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("check_in < ?", *f.To)
	}

	var list []models.Reservation
	if err := q.Order("check_in ASC, id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return list, nil
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

func (s *GormStore) GetReservation(ctx context.Context, id uint) (models.Reservation, error) {
	var r models.Reservation
	err := preloadItems(s.db(ctx)).First(&r, id).Error
	return r, translate(err)
}

func (s *GormStore) FindCheckedInByAccessCode(ctx context.Context, code string) (models.Reservation, error) {
	var r models.Reservation
	err := preloadItems(s.db(ctx)).
		Where("access_code = ? AND status = ?", code, models.ReservationCheckedIn).
		Order("id DESC").
		First(&r).Error
	return r, translate(err)
}

func (s *GormStore) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if r.Version == 0 {
		r.Version = 1
	}
	return translate(s.db(ctx).Omit(clause.Associations).Create(r).Error)
}

func (s *GormStore) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	return s.updateVersioned(ctx, r, "reservations", r.ID, &r.Version)
}

// ---------------------------
// Consumption items
// ---------------------------

func (s *GormStore) ListItems(ctx context.Context, f ItemFilter) ([]models.ConsumptionItem, error) {
	q := s.db(ctx).Model(&models.ConsumptionItem{})
	if f.ReservationID != nil {
		q = q.Where("reservation_id = ?", *f.ReservationID)
	}
	if len(f.ReservationIDs) > 0 {
		q = q.Where("reservation_id IN ?", f.ReservationIDs)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if len(f.Categories) > 0 {
		q = q.Where("category IN ?", f.Categories)
	}

	var items []models.ConsumptionItem
	if err := q.Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list consumption items: %w", err)
	}
	return items, nil
}

func (s *GormStore) GetItem(ctx context.Context, id uint) (models.ConsumptionItem, error) {
	var item models.ConsumptionItem
	err := s.db(ctx).First(&item, id).Error
	return item, translate(err)
}

func (s *GormStore) CreateItem(ctx context.Context, item *models.ConsumptionItem) error {
	if item.Version == 0 {
		item.Version = 1
	}
	return translate(s.db(ctx).Create(item).Error)
}

func (s *GormStore) UpdateItem(ctx context.Context, item *models.ConsumptionItem) error {
	return s.updateVersioned(ctx, item, "consumption_items", item.ID, &item.Version)
}

func (s *GormStore) DeleteItem(ctx context.Context, id uint) error {
	res := s.db(ctx).Delete(&models.ConsumptionItem{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---------------------------
// Products
// ---------------------------

func (s *GormStore) ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	q := s.db(ctx).Model(&models.Product{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var products []models.Product
	if err := q.Order("category ASC, name ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *GormStore) GetProduct(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := s.db(ctx).First(&p, id).Error
	return p, translate(err)
}

func (s *GormStore) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(s.db(ctx).Create(p).Error)
}

func (s *GormStore) UpdateProduct(ctx context.Context, p *models.Product) error {
	return translate(s.db(ctx).Save(p).Error)
}

// ---------------------------
// Transactions
// ---------------------------

func (s *GormStore) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, error) {
	q := s.db(ctx).Model(&models.Transaction{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ReservationID != nil {
		q = q.Where("reservation_id = ?", *f.ReservationID)
	}
	if f.EventID != nil {
		q = q.Where("event_id = ?", *f.EventID)
	}
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date < ?", *f.To)
	}

	var list []models.Transaction
	if err := q.Order("date DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return list, nil
}

func (s *GormStore) GetTransaction(ctx context.Context, id uint) (models.Transaction, error) {
	var t models.Transaction
	err := s.db(ctx).First(&t, id).Error
	return t, translate(err)
}

func (s *GormStore) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return translate(s.db(ctx).Create(t).Error)
}

func (s *GormStore) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	return translate(s.db(ctx).Save(t).Error)
}

// ---------------------------
// Events
// ---------------------------

func (s *GormStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := s.db(ctx).Order("starts_at ASC, id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *GormStore) GetEvent(ctx context.Context, id uint) (models.Event, error) {
	var e models.Event
	err := s.db(ctx).First(&e, id).Error
	return e, translate(err)
}

func (s *GormStore) CreateEvent(ctx context.Context, e *models.Event) error {
	return translate(s.db(ctx).Create(e).Error)
}

func (s *GormStore) UpdateEvent(ctx context.Context, e *models.Event) error {
	return translate(s.db(ctx).Save(e).Error)
}

// ---------------------------
// Customers
// ---------------------------

func (s *GormStore) ListCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	q := s.db(ctx).Model(&models.Customer{})
	if query = strings.ToLower(strings.TrimSpace(query)); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	var customers []models.Customer
	if err := q.Order("full_name ASC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *GormStore) GetCustomer(ctx context.Context, id uint) (models.Customer, error) {
	var c models.Customer
	err := s.db(ctx).First(&c, id).Error
	return c, translate(err)
}

func (s *GormStore) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return translate(s.db(ctx).Create(c).Error)
}

// ---------------------------
// Admins & roles
// ---------------------------

func (s *GormStore) GetAdminByUsername(ctx context.Context, username string) (models.Admin, error) {
	var a models.Admin
	err := s.db(ctx).Where("username = ?", username).First(&a).Error
	return a, translate(err)
}

func (s *GormStore) CreateAdmin(ctx context.Context, a *models.Admin) error {
	return translate(s.db(ctx).Create(a).Error)
}

func (s *GormStore) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := s.db(ctx).Model(&models.Admin{}).Count(&n).Error
	return n, err
}

func (s *GormStore) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := s.db(ctx).Preload("Permissions").Order("id ASC").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func (s *GormStore) GetRoleByName(ctx context.Context, name string) (models.Role, error) {
	var r models.Role
	err := s.db(ctx).Preload("Permissions").
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&r).Error
	return r, translate(err)
}

func (s *GormStore) CreateRole(ctx context.Context, r *models.Role) error {
	return translate(s.db(ctx).Create(r).Error)
}

func (s *GormStore) SetRolePermissions(ctx context.Context, roleID uint, permissions []string) error {
	return s.db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&models.RolePermission{}).Error; err != nil {
			return err
		}
		if len(permissions) == 0 {
			return nil
		}
		perms := make([]models.RolePermission, 0, len(permissions))
		for _, p := range permissions {
			perms = append(perms, models.RolePermission{RoleID: roleID, Permission: p})
		}
		return tx.Create(&perms).Error
	})
}

func (s *GormStore) AddRoleMember(ctx context.Context, roleID, adminID uint) error {
	return s.db(ctx).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.RoleMember{RoleID: roleID, AdminID: adminID}).Error
}

func (s *GormStore) RolesForAdmin(ctx context.Context, adminID uint) ([]models.Role, error) {
	var roles []models.Role
	err := s.db(ctx).Preload("Permissions").
		Joins("JOIN role_members ON role_members.role_id = roles.id").
		Where("role_members.admin_id = ?", adminID).
		Order("roles.id ASC").
		Find(&roles).Error
	return roles, err
}

// ---------------------------
// Settings & audit
// ---------------------------

func (s *GormStore) GetHotelSetting(ctx context.Context) (models.HotelSetting, error) {
	var h models.HotelSetting
	err := s.db(ctx).Order("id ASC").First(&h).Error
	return h, translate(err)
}

func (s *GormStore) SaveHotelSetting(ctx context.Context, h *models.HotelSetting) error {
	return s.db(ctx).Save(h).Error
}

func (s *GormStore) CreateAuditLog(ctx context.Context, l *models.AuditLog) error {
	return s.db(ctx).Create(l).Error
}

func (s *GormStore) ListAuditLogs(ctx context.Context, f AuditFilter) ([]models.AuditLog, error) {
	q := s.db(ctx).Model(&models.AuditLog{})
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.EntityID != 0 {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var logs []models.AuditLog
	if err := q.Order("id DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
