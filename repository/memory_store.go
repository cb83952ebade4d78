package repository

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"resort-backend/models"
)

type memoryData struct {
	seq map[string]uint

	rooms        map[uint]models.Room
	reservations map[uint]models.Reservation
	items        map[uint]models.ConsumptionItem
	products     map[uint]models.Product
	transactions map[uint]models.Transaction
	events       map[uint]models.Event
	customers    map[uint]models.Customer
	admins       map[uint]models.Admin
	roles        map[uint]models.Role
	members      map[models.RoleMember]struct{}
	hotel        *models.HotelSetting
	audit        []models.AuditLog
}

func newMemoryData() *memoryData {
	return &memoryData{
		seq:          map[string]uint{},
		rooms:        map[uint]models.Room{},
		reservations: map[uint]models.Reservation{},
		items:        map[uint]models.ConsumptionItem{},
		products:     map[uint]models.Product{},
		transactions: map[uint]models.Transaction{},
		events:       map[uint]models.Event{},
		customers:    map[uint]models.Customer{},
		admins:       map[uint]models.Admin{},
		roles:        map[uint]models.Role{},
		members:      map[models.RoleMember]struct{}{},
	}
}

// clone copies every table. Stored values never share mutable slices
// (reservation items are stripped, role permissions are replaced wholesale),
// so a shallow map copy is enough.
func (d *memoryData) clone() *memoryData {
	c := &memoryData{
		seq:          maps.Clone(d.seq),
		rooms:        maps.Clone(d.rooms),
		reservations: maps.Clone(d.reservations),
		items:        maps.Clone(d.items),
		products:     maps.Clone(d.products),
		transactions: maps.Clone(d.transactions),
		events:       maps.Clone(d.events),
		customers:    maps.Clone(d.customers),
		admins:       maps.Clone(d.admins),
		roles:        maps.Clone(d.roles),
		members:      maps.Clone(d.members),
		audit:        slices.Clone(d.audit),
	}
	if d.hotel != nil {
		h := *d.hotel
		c.hotel = &h
	}
	return c
}

func (d *memoryData) nextID(table string) uint {
	d.seq[table]++
	return d.seq[table]
}

type memoryState struct {
	data *memoryData
}

// MemoryStore keeps everything in process memory. It backs tests and the
// DB_DRIVER=memory mode. Transactions run on a private copy that replaces the
// live data only when fn succeeds; writers are serialised.
type MemoryStore struct {
	mu    *sync.RWMutex
	state *memoryState
	tx    *memoryData // set on the Store handed to WithinTx callbacks
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu:    &sync.RWMutex{},
		state: &memoryState{data: newMemoryData()},
	}
}

func noop() {}

func (s *MemoryStore) rlock() (*memoryData, func()) {
	if s.tx != nil {
		return s.tx, noop
	}
	s.mu.RLock()
	return s.state.data, s.mu.RUnlock
}

func (s *MemoryStore) lock() (*memoryData, func()) {
	if s.tx != nil {
		return s.tx, noop
	}
	s.mu.Lock()
	return s.state.data, s.mu.Unlock
}

func (s *MemoryStore) WithinTx(_ context.Context, fn func(tx Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.data.clone()
	if err := fn(&MemoryStore{mu: s.mu, state: s.state, tx: work}); err != nil {
		return err
	}
	s.state.data = work
	return nil
}

func sortedValues[T any](m map[uint]T) []T {
	out := make([]T, 0, len(m))
	for _, id := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[id])
	}
	return out
}

func stamp(created, updated *time.Time) {
	now := time.Now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

// ---------------------------
// Rooms
// ---------------------------

func (s *MemoryStore) ListRooms(_ context.Context) ([]models.Room, error) {
	d, unlock := s.rlock()
	defer unlock()
	return sortedValues(d.rooms), nil
}

func (s *MemoryStore) GetRoom(_ context.Context, id uint) (models.Room, error) {
	d, unlock := s.rlock()
	defer unlock()
	room, ok := d.rooms[id]
	if !ok {
		return models.Room{}, ErrNotFound
	}
	return room, nil
}

// LockRoom needs no extra locking here: transactions already hold the writer lock.
func (s *MemoryStore) LockRoom(ctx context.Context, id uint) (models.Room, error) {
	return s.GetRoom(ctx, id)
}

func (s *MemoryStore) CreateRoom(_ context.Context, room *models.Room) error {
	d, unlock := s.lock()
	defer unlock()
	for _, existing := range d.rooms {
		if strings.EqualFold(existing.Name, room.Name) {
			return ErrDuplicate
		}
	}
	room.ID = d.nextID("rooms")
	if room.Version == 0 {
		room.Version = 1
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	stamp(&room.CreatedAt, &room.UpdatedAt)
	d.rooms[room.ID] = *room
	return nil
}

func (s *MemoryStore) UpdateRoom(_ context.Context, room *models.Room) error {
	d, unlock := s.lock()
	defer unlock()
	current, ok := d.rooms[room.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != room.Version {
		return ErrVersionConflict
	}
	for id, existing := range d.rooms {
		if id != room.ID && strings.EqualFold(existing.Name, room.Name) {
			return ErrDuplicate
		}
	}
	room.Version++
	room.CreatedAt = current.CreatedAt
	stamp(&room.CreatedAt, &room.UpdatedAt)
	d.rooms[room.ID] = *room
	return nil
}

func (s *MemoryStore) DeleteRoom(_ context.Context, id uint) error {
	d, unlock := s.lock()
	defer unlock()
	if _, ok := d.rooms[id]; !ok {
		return ErrNotFound
	}
	delete(d.rooms, id)
	return nil
}

// ---------------------------
// Reservations
// ---------------------------

func matchReservation(r models.Reservation, f ReservationFilter) bool {
	if f.RoomID != nil && r.RoomID != *f.RoomID {
		return false
	}
	if f.CustomerID != nil && (r.CustomerID == nil || *r.CustomerID != *f.CustomerID) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, r.Status) {
		return false
	}
	if f.From != nil && !r.CheckOut.After(*f.From) {
		return false
	}
	if f.To != nil && !r.CheckIn.Before(*f.To) {
		return false
	}
	return true
}

func (s *MemoryStore) ListReservations(_ context.Context, f ReservationFilter) ([]models.Reservation, error) {
	d, unlock := s.rlock()
	defer unlock()
	var out []models.Reservation
	for _, r := range sortedValues(d.reservations) {
		if matchReservation(r, f) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (d *memoryData) itemsOf(reservationID uint) []models.ConsumptionItem {
	items := []models.ConsumptionItem{}
	for _, it := range sortedValues(d.items) {
		if it.ReservationID == reservationID {
			items = append(items, it)
		}
	}
	return items
}

func (s *MemoryStore) GetReservation(_ context.Context, id uint) (models.Reservation, error) {
	d, unlock := s.rlock()
	defer unlock()
	r, ok := d.reservations[id]
	if !ok {
		return models.Reservation{}, ErrNotFound
	}
	r.Items = d.itemsOf(id)
	return r, nil
}

func (s *MemoryStore) FindCheckedInByAccessCode(_ context.Context, code string) (models.Reservation, error) {
	d, unlock := s.rlock()
	defer unlock()
	ids := slices.Sorted(maps.Keys(d.reservations))
	for i := len(ids) - 1; i >= 0; i-- {
		r := d.reservations[ids[i]]
		if r.AccessCode == code && r.Status == models.ReservationCheckedIn {
			r.Items = d.itemsOf(r.ID)
			return r, nil
		}
	}
	return models.Reservation{}, ErrNotFound
}

func (s *MemoryStore) CreateReservation(_ context.Context, r *models.Reservation) error {
	d, unlock := s.lock()
	defer unlock()
	if r.ReferenceCode != "" {
		for _, existing := range d.reservations {
			if existing.ReferenceCode == r.ReferenceCode {
				return ErrDuplicate
			}
		}
	}
	r.ID = d.nextID("reservations")
	if r.Version == 0 {
		r.Version = 1
	}
	stamp(&r.CreatedAt, &r.UpdatedAt)
	stored := *r
	stored.Items = nil
	d.reservations[r.ID] = stored
	return nil
}

func (s *MemoryStore) UpdateReservation(_ context.Context, r *models.Reservation) error {
	d, unlock := s.lock()
	defer unlock()
	current, ok := d.reservations[r.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != r.Version {
		return ErrVersionConflict
	}
	r.Version++
	r.CreatedAt = current.CreatedAt
	stamp(&r.CreatedAt, &r.UpdatedAt)
	stored := *r
	stored.Items = nil
	d.reservations[r.ID] = stored
	return nil
}

// ---------------------------
// Consumption items
// ---------------------------

func matchItem(it models.ConsumptionItem, f ItemFilter) bool {
	if f.ReservationID != nil && it.ReservationID != *f.ReservationID {
		return false
	}
	if len(f.ReservationIDs) > 0 && !slices.Contains(f.ReservationIDs, it.ReservationID) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, it.Status) {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, it.Category) {
		return false
	}
	return true
}

func (s *MemoryStore) ListItems(_ context.Context, f ItemFilter) ([]models.ConsumptionItem, error) {
	d, unlock := s.rlock()
	defer unlock()
	var out []models.ConsumptionItem
	for _, it := range sortedValues(d.items) {
		if matchItem(it, f) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetItem(_ context.Context, id uint) (models.ConsumptionItem, error) {
	d, unlock := s.rlock()
	defer unlock()
	it, ok := d.items[id]
	if !ok {
		return models.ConsumptionItem{}, ErrNotFound
	}
	return it, nil
}

func (s *MemoryStore) CreateItem(_ context.Context, item *models.ConsumptionItem) error {
	d, unlock := s.lock()
	defer unlock()
	if _, ok := d.reservations[item.ReservationID]; !ok {
		return ErrNotFound
	}
	item.ID = d.nextID("items")
	if item.Version == 0 {
		item.Version = 1
	}
	stamp(&item.CreatedAt, &item.UpdatedAt)
	d.items[item.ID] = *item
	return nil
}

func (s *MemoryStore) UpdateItem(_ context.Context, item *models.ConsumptionItem) error {
	d, unlock := s.lock()
	defer unlock()
	current, ok := d.items[item.ID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != item.Version {
		return ErrVersionConflict
	}
	item.Version++
	item.CreatedAt = current.CreatedAt
	stamp(&item.CreatedAt, &item.UpdatedAt)
	d.items[item.ID] = *item
	return nil
}

func (s *MemoryStore) DeleteItem(_ context.Context, id uint) error {
	d, unlock := s.lock()
	defer unlock()
	if _, ok := d.items[id]; !ok {
		return ErrNotFound
	}
	delete(d.items, id)
	return nil
}

// ---------------------------
// Products
// ---------------------------

func (s *MemoryStore) ListProducts(_ context.Context, activeOnly bool) ([]models.Product, error) {
	d, unlock := s.rlock()
	defer unlock()
	var out []models.Product
	for _, p := range sortedValues(d.products) {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id uint) (models.Product, error) {
	d, unlock := s.rlock()
	defer unlock()
	p, ok := d.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, p *models.Product) error {
	d, unlock := s.lock()
	defer unlock()
	p.ID = d.nextID("products")
	stamp(&p.CreatedAt, &p.UpdatedAt)
	d.products[p.ID] = *p
	return nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, p *models.Product) error {
	d, unlock := s.lock()
	defer unlock()
	current, ok := d.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = current.CreatedAt
	stamp(&p.CreatedAt, &p.UpdatedAt)
	d.products[p.ID] = *p
	return nil
}

// ---------------------------
// Transactions
// ---------------------------

func matchTransaction(t models.Transaction, f TransactionFilter) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.ReservationID != nil && (t.ReservationID == nil || *t.ReservationID != *f.ReservationID) {
		return false
	}
	if f.EventID != nil && (t.EventID == nil || *t.EventID != *f.EventID) {
		return false
	}
	if f.From != nil && t.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && !t.Date.Before(*f.To) {
		return false
	}
	return true
}

func (s *MemoryStore) ListTransactions(_ context.Context, f TransactionFilter) ([]models.Transaction, error) {
	d, unlock := s.rlock()
	defer unlock()
	var out []models.Transaction
	for _, t := range sortedValues(d.transactions) {
		if matchTransaction(t, f) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) GetTransaction(_ context.Context, id uint) (models.Transaction, error) {
	d, unlock := s.rlock()
	defer unlock()
	t, ok := d.transactions[id]
	if !ok {
		return models.Transaction{}, ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) CreateTransaction(_ context.Context, t *models.Transaction) error {
	d, unlock := s.lock()
	defer unlock()
	t.ID = d.nextID("transactions")
	stamp(&t.CreatedAt, &t.UpdatedAt)
	d.transactions[t.ID] = *t
	return nil
}

func (s *MemoryStore) UpdateTransaction(_ context.Context, t *models.Transaction) error {
	d, unlock := s.lock()
	defer unlock()
	current, ok := d.transactions[t.ID]
	if !ok {
		return ErrNotFound
	}
	t.CreatedAt = current.CreatedAt
	stamp(&t.CreatedAt, &t.UpdatedAt)
	d.transactions[t.ID] = *t
	return nil
}

// ---------------------------
// Events
// ---------------------------

func (s *MemoryStore) ListEvents(_ context.Context) ([]models.Event, error) {
	d, unlock := s.rlock()
	defer unlock()
	out := sortedValues(d.events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

func (s *MemoryStore) GetEvent(_ context.Context, id uint) (models.Event, error) {
	d, unlock := s.rlock()
	defer unlock()
	e, ok := d.events[id]
	if !ok {
		return models.Event{}, ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) CreateEvent(_ context.Context, e *models.Event) error {
	d, unlock := s.lock()
	defer unlock()
	e.ID = d.nextID("events")
	stamp(&e.CreatedAt, &e.UpdatedAt)
	d.events[e.ID] = *e
	return nil
}

func (s *MemoryStore) UpdateEvent(_ context.Context, e *models.Event) error {
	d, unlock := s.lock()
	defer unlock()
	current, ok := d.events[e.ID]
	if !ok {
		return ErrNotFound
	}
	e.CreatedAt = current.CreatedAt
	stamp(&e.CreatedAt, &e.UpdatedAt)
	d.events[e.ID] = *e
	return nil
}

// ---------------------------
// Customers
// ---------------------------

func (s *MemoryStore) ListCustomers(_ context.Context, query string) ([]models.Customer, error) {
	d, unlock := s.rlock()
	defer unlock()
	query = strings.ToLower(strings.TrimSpace(query))
	var out []models.Customer
	for _, c := range sortedValues(d.customers) {
		if query != "" &&
			!strings.Contains(strings.ToLower(c.FullName), query) &&
			!strings.Contains(strings.ToLower(c.Email), query) {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (s *MemoryStore) GetCustomer(_ context.Context, id uint) (models.Customer, error) {
	d, unlock := s.rlock()
	defer unlock()
	c, ok := d.customers[id]
	if !ok {
		return models.Customer{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) CreateCustomer(_ context.Context, c *models.Customer) error {
	d, unlock := s.lock()
	defer unlock()
	c.ID = d.nextID("customers")
	if c.Status == "" {
		c.Status = models.CustomerLead
	}
	stamp(&c.CreatedAt, &c.UpdatedAt)
	d.customers[c.ID] = *c
	return nil
}

// ---------------------------
// Admins & roles
// ---------------------------

func (s *MemoryStore) GetAdminByUsername(_ context.Context, username string) (models.Admin, error) {
	d, unlock := s.rlock()
	defer unlock()
	for _, a := range d.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return models.Admin{}, ErrNotFound
}

func (s *MemoryStore) CreateAdmin(_ context.Context, a *models.Admin) error {
	d, unlock := s.lock()
	defer unlock()
	for _, existing := range d.admins {
		if existing.Username == a.Username {
			return ErrDuplicate
		}
	}
	a.ID = d.nextID("admins")
	stamp(&a.CreatedAt, &a.UpdatedAt)
	d.admins[a.ID] = *a
	return nil
}

func (s *MemoryStore) CountAdmins(_ context.Context) (int64, error) {
	d, unlock := s.rlock()
	defer unlock()
	return int64(len(d.admins)), nil
}

func (s *MemoryStore) ListRoles(_ context.Context) ([]models.Role, error) {
	d, unlock := s.rlock()
	defer unlock()
	return sortedValues(d.roles), nil
}

func (s *MemoryStore) GetRoleByName(_ context.Context, name string) (models.Role, error) {
	d, unlock := s.rlock()
	defer unlock()
	name = strings.TrimSpace(name)
	for _, r := range sortedValues(d.roles) {
		if strings.EqualFold(r.Name, name) {
			return r, nil
		}
	}
	return models.Role{}, ErrNotFound
}

func (s *MemoryStore) CreateRole(_ context.Context, r *models.Role) error {
	d, unlock := s.lock()
	defer unlock()
	for _, existing := range d.roles {
		if strings.EqualFold(existing.Name, r.Name) {
			return ErrDuplicate
		}
	}
	r.ID = d.nextID("roles")
	r.CreatedAt = time.Now()
	perms := make([]models.RolePermission, len(r.Permissions))
	for i, p := range r.Permissions {
		p.ID = d.nextID("role_permissions")
		p.RoleID = r.ID
		perms[i] = p
	}
	r.Permissions = perms
	stored := *r
	stored.Permissions = slices.Clone(perms)
	d.roles[r.ID] = stored
	return nil
}

func (s *MemoryStore) SetRolePermissions(_ context.Context, roleID uint, permissions []string) error {
	d, unlock := s.lock()
	defer unlock()
	role, ok := d.roles[roleID]
	if !ok {
		return ErrNotFound
	}
	perms := make([]models.RolePermission, 0, len(permissions))
	for _, p := range permissions {
		perms = append(perms, models.RolePermission{ID: d.nextID("role_permissions"), RoleID: roleID, Permission: p})
	}
	role.Permissions = perms
	d.roles[roleID] = role
	return nil
}

func (s *MemoryStore) AddRoleMember(_ context.Context, roleID, adminID uint) error {
	d, unlock := s.lock()
	defer unlock()
	if _, ok := d.roles[roleID]; !ok {
		return ErrNotFound
	}
	d.members[models.RoleMember{RoleID: roleID, AdminID: adminID}] = struct{}{}
	return nil
}

func (s *MemoryStore) RolesForAdmin(_ context.Context, adminID uint) ([]models.Role, error) {
	d, unlock := s.rlock()
	defer unlock()
	var out []models.Role
	for _, r := range sortedValues(d.roles) {
		if _, ok := d.members[models.RoleMember{RoleID: r.ID, AdminID: adminID}]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// ---------------------------
// Settings & audit
// ---------------------------

func (s *MemoryStore) GetHotelSetting(_ context.Context) (models.HotelSetting, error) {
	d, unlock := s.rlock()
	defer unlock()
	if d.hotel == nil {
		return models.HotelSetting{}, ErrNotFound
	}
	return *d.hotel, nil
}

func (s *MemoryStore) SaveHotelSetting(_ context.Context, h *models.HotelSetting) error {
	d, unlock := s.lock()
	defer unlock()
	if h.ID == 0 {
		h.ID = 1
	}
	stamp(&h.CreatedAt, &h.UpdatedAt)
	saved := *h
	d.hotel = &saved
	return nil
}

func (s *MemoryStore) CreateAuditLog(_ context.Context, l *models.AuditLog) error {
	d, unlock := s.lock()
	defer unlock()
	l.ID = d.nextID("audit_logs")
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	d.audit = append(d.audit, *l)
	return nil
}

func (s *MemoryStore) ListAuditLogs(_ context.Context, f AuditFilter) ([]models.AuditLog, error) {
	d, unlock := s.rlock()
	defer unlock()
	var out []models.AuditLog
	for i := len(d.audit) - 1; i >= 0; i-- {
		l := d.audit[i]
		if f.Entity != "" && l.Entity != f.Entity {
			continue
		}
		if f.EntityID != 0 && l.EntityID != f.EntityID {
			continue
		}
		out = append(out, l)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}
