// Package memory is an in-process store.Store. Every table is a map keyed by
// id; a transaction works on a private copy that replaces the shared state on
// commit, so concurrent transactions are serialized and a failed one leaves
// nothing behind.
package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/store"
	"github.com/ray-remotestate/foodwaste/utils"
)

type tables struct {
	cafeterias   map[int]models.Cafeteria
	staff        map[int]models.CafeteriaStaff
	products     map[int]models.Product
	students     map[int]models.Student
	packages     map[int]models.Package
	reservations map[int]models.Reservation
	users        map[uuid.UUID]models.User
	lastID       map[string]int
}

func newTables() *tables {
	return &tables{
		cafeterias:   make(map[int]models.Cafeteria),
		staff:        make(map[int]models.CafeteriaStaff),
		products:     make(map[int]models.Product),
		students:     make(map[int]models.Student),
		packages:     make(map[int]models.Package),
		reservations: make(map[int]models.Reservation),
		users:        make(map[uuid.UUID]models.User),
		lastID:       make(map[string]int),
	}
}

func (t *tables) clone() *tables {
	packages := make(map[int]models.Package, len(t.packages))
	for id, p := range t.packages {
		packages[id] = copyPackage(p)
	}
	return &tables{
		cafeterias:   maps.Clone(t.cafeterias),
		staff:        maps.Clone(t.staff),
		products:     maps.Clone(t.products),
		students:     maps.Clone(t.students),
		packages:     packages,
		reservations: maps.Clone(t.reservations),
		users:        maps.Clone(t.users),
		lastID:       maps.Clone(t.lastID),
	}
}

func (t *tables) nextID(table string) int {
	t.lastID[table]++
	return t.lastID[table]
}

// Store is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data *tables
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{data: newTables()}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(&memTx{reader: reader{data: work}}); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) read() reader {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// the shared tables are replaced, never mutated, after a commit
	return reader{data: s.data}
}

func (s *Store) CafeteriaByID(ctx context.Context, id int) (*models.Cafeteria, error) {
	return s.read().CafeteriaByID(ctx, id)
}

func (s *Store) ListCafeterias(ctx context.Context) ([]models.Cafeteria, error) {
	return s.read().ListCafeterias(ctx)
}

func (s *Store) ProductsByIDs(ctx context.Context, ids []int) ([]models.Product, error) {
	return s.read().ProductsByIDs(ctx, ids)
}

func (s *Store) StudentByID(ctx context.Context, id int) (*models.Student, error) {
	return s.read().StudentByID(ctx, id)
}

func (s *Store) StudentByNumber(ctx context.Context, number string) (*models.Student, error) {
	return s.read().StudentByNumber(ctx, number)
}

func (s *Store) ListStudents(ctx context.Context) ([]models.Student, error) {
	return s.read().ListStudents(ctx)
}

func (s *Store) PackageByID(ctx context.Context, id int) (*models.Package, error) {
	return s.read().PackageByID(ctx, id)
}

func (s *Store) ListPackages(ctx context.Context, filter models.PackageFilter) ([]models.Package, error) {
	return s.read().ListPackages(ctx, filter)
}

func (s *Store) ReservationByID(ctx context.Context, id int) (*models.Reservation, error) {
	return s.read().ReservationByID(ctx, id)
}

func (s *Store) ListReservations(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	return s.read().ListReservations(ctx, filter)
}

func (s *Store) StudentHasReservationOn(ctx context.Context, studentID int, day time.Time) (bool, error) {
	return s.read().StudentHasReservationOn(ctx, studentID, day)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.read().UserByEmail(ctx, email)
}

type reader struct {
	data *tables
}

func (r reader) CafeteriaByID(_ context.Context, id int) (*models.Cafeteria, error) {
	c, ok := r.data.cafeterias[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (r reader) ListCafeterias(_ context.Context) ([]models.Cafeteria, error) {
	out := make([]models.Cafeteria, 0, len(r.data.cafeterias))
	for _, id := range sortedKeys(r.data.cafeterias) {
		out = append(out, r.data.cafeterias[id])
	}
	return out, nil
}

func (r reader) ProductsByIDs(_ context.Context, ids []int) ([]models.Product, error) {
	seen := make(map[int]bool, len(ids))
	var out []models.Product
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := r.data.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r reader) StudentByID(_ context.Context, id int) (*models.Student, error) {
	s, ok := r.data.students[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (r reader) StudentByNumber(_ context.Context, number string) (*models.Student, error) {
	for _, id := range sortedKeys(r.data.students) {
		if s := r.data.students[id]; s.StudentNumber == number {
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r reader) ListStudents(_ context.Context) ([]models.Student, error) {
	out := make([]models.Student, 0, len(r.data.students))
	for _, id := range sortedKeys(r.data.students) {
		out = append(out, r.data.students[id])
	}
	return out, nil
}

func (r reader) PackageByID(_ context.Context, id int) (*models.Package, error) {
	p, ok := r.data.packages[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p = copyPackage(p)
	return &p, nil
}

func (r reader) ListPackages(_ context.Context, filter models.PackageFilter) ([]models.Package, error) {
	var ids map[int]bool
	if filter.IDs != nil {
		ids = make(map[int]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			ids[id] = true
		}
	}

	out := make([]models.Package, 0)
	for _, id := range sortedKeys(r.data.packages) {
		p := r.data.packages[id]
		if ids != nil && !ids[p.ID] {
			continue
		}
		if filter.Status != "" && p.ReservationStatus != filter.Status {
			continue
		}
		if filter.MealType != "" && p.MealType != filter.MealType {
			continue
		}
		if filter.City != "" {
			c, ok := r.data.cafeterias[p.CafeteriaID]
			if !ok || !strings.EqualFold(c.City, filter.City) {
				continue
			}
		}
		out = append(out, copyPackage(p))
	}

	sortPackages(out, filter.OrderBy)
	return out, nil
}

func (r reader) ReservationByID(_ context.Context, id int) (*models.Reservation, error) {
	res, ok := r.data.reservations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &res, nil
}

func (r reader) ListReservations(_ context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	out := make([]models.Reservation, 0)
	for _, id := range sortedKeys(r.data.reservations) {
		res := r.data.reservations[id]
		if filter.StudentID != nil && res.StudentID != *filter.StudentID {
			continue
		}
		if filter.PackageID != nil && res.PackageID != *filter.PackageID {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (r reader) StudentHasReservationOn(_ context.Context, studentID int, day time.Time) (bool, error) {
	for _, res := range r.data.reservations {
		if res.StudentID != studentID {
			continue
		}
		p, ok := r.data.packages[res.PackageID]
		if ok && utils.SameDay(p.PickupDateTime, day) {
			return true, nil
		}
	}
	return false, nil
}

func (r reader) UserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.data.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

type memTx struct {
	reader
}

func (t *memTx) LockStudent(_ context.Context, id int) error {
	if _, ok := t.data.students[id]; !ok {
		return store.ErrNotFound
	}
	return nil
}

func (t *memTx) LockPackage(_ context.Context, id int) error {
	if _, ok := t.data.packages[id]; !ok {
		return store.ErrNotFound
	}
	return nil
}

func (t *memTx) InsertCafeteria(_ context.Context, c *models.Cafeteria) error {
	c.ID = t.data.nextID("cafeterias")
	t.data.cafeterias[c.ID] = *c
	return nil
}

func (t *memTx) InsertStaff(_ context.Context, s *models.CafeteriaStaff) error {
	if _, ok := t.data.cafeterias[s.CafeteriaID]; !ok {
		return store.ErrNotFound
	}
	s.ID = t.data.nextID("staff")
	t.data.staff[s.ID] = *s
	return nil
}

func (t *memTx) InsertProduct(_ context.Context, p *models.Product) error {
	p.ID = t.data.nextID("products")
	t.data.products[p.ID] = *p
	return nil
}

func (t *memTx) InsertStudent(_ context.Context, s *models.Student) error {
	for _, existing := range t.data.students {
		if existing.StudentNumber == s.StudentNumber {
			return store.ErrDuplicate
		}
	}
	s.ID = t.data.nextID("students")
	t.data.students[s.ID] = *s
	return nil
}

func (t *memTx) UpdateStudent(_ context.Context, s *models.Student) error {
	if _, ok := t.data.students[s.ID]; !ok {
		return store.ErrNotFound
	}
	for id, existing := range t.data.students {
		if id != s.ID && existing.StudentNumber == s.StudentNumber {
			return store.ErrDuplicate
		}
	}
	t.data.students[s.ID] = *s
	return nil
}

func (t *memTx) DeleteStudent(_ context.Context, id int) error {
	if _, ok := t.data.students[id]; !ok {
		return store.ErrNotFound
	}
	delete(t.data.students, id)
	for uid, u := range t.data.users {
		if u.StudentID != nil && *u.StudentID == id {
			delete(t.data.users, uid)
		}
	}
	return nil
}

func (t *memTx) InsertPackage(_ context.Context, p *models.Package) error {
	if _, ok := t.data.cafeterias[p.CafeteriaID]; !ok {
		return store.ErrNotFound
	}
	p.ID = t.data.nextID("packages")
	t.data.packages[p.ID] = copyPackage(*p)
	return nil
}

func (t *memTx) UpdatePackage(_ context.Context, p *models.Package) error {
	if _, ok := t.data.packages[p.ID]; !ok {
		return store.ErrNotFound
	}
	t.data.packages[p.ID] = copyPackage(*p)
	return nil
}

func (t *memTx) DeletePackage(_ context.Context, id int) error {
	if _, ok := t.data.packages[id]; !ok {
		return store.ErrNotFound
	}
	delete(t.data.packages, id)
	for rid, r := range t.data.reservations {
		if r.PackageID == id {
			delete(t.data.reservations, rid)
		}
	}
	return nil
}

func (t *memTx) SetPackageReservation(_ context.Context, id int, from, to models.ReservationStatus, reservedBy *int) (bool, error) {
	p, ok := t.data.packages[id]
	if !ok {
		return false, store.ErrNotFound
	}
	if p.ReservationStatus != from {
		return false, nil
	}
	p.ReservationStatus = to
	if reservedBy != nil {
		studentID := *reservedBy
		p.ReservedByID = &studentID
	} else {
		p.ReservedByID = nil
	}
	t.data.packages[p.ID] = p
	return true, nil
}

func (t *memTx) InsertReservation(_ context.Context, r *models.Reservation) error {
	if _, ok := t.data.students[r.StudentID]; !ok {
		return store.ErrNotFound
	}
	if _, ok := t.data.packages[r.PackageID]; !ok {
		return store.ErrNotFound
	}
	r.ID = t.data.nextID("reservations")
	t.data.reservations[r.ID] = *r
	return nil
}

func (t *memTx) DeleteReservation(_ context.Context, id int) error {
	if _, ok := t.data.reservations[id]; !ok {
		return store.ErrNotFound
	}
	delete(t.data.reservations, id)
	return nil
}

func (t *memTx) InsertUser(_ context.Context, u *models.User) error {
	for _, existing := range t.data.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return store.ErrDuplicate
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	t.data.users[u.ID] = *u
	return nil
}

func copyPackage(p models.Package) models.Package {
	p.ExampleProductIDs = slices.Clone(p.ExampleProductIDs)
	if p.ReservedByID != nil {
		id := *p.ReservedByID
		p.ReservedByID = &id
	}
	return p
}

func sortPackages(pkgs []models.Package, order models.PackageOrder) {
	if order == "" {
		return
	}

	var less func(a, b models.Package) int
	switch order {
	case models.OrderByName:
		less = func(a, b models.Package) int { return strings.Compare(a.Name, b.Name) }
	case models.OrderByNameDesc:
		less = func(a, b models.Package) int { return strings.Compare(b.Name, a.Name) }
	case models.OrderByPrice:
		less = func(a, b models.Package) int { return a.Price.Cmp(b.Price) }
	case models.OrderByPriceDesc:
		less = func(a, b models.Package) int { return b.Price.Cmp(a.Price) }
	case models.OrderByPickupDateDesc:
		less = func(a, b models.Package) int { return b.PickupDateTime.Compare(a.PickupDateTime) }
	default:
		less = func(a, b models.Package) int { return a.PickupDateTime.Compare(b.PickupDateTime) }
	}
	// pkgs arrive in id order, so a stable sort breaks ties by id
	sort.SliceStable(pkgs, func(i, j int) bool {
		return less(pkgs[i], pkgs[j]) < 0
	})
}

func sortedKeys[V any](m map[int]V) []int {
	keys := slices.Collect(maps.Keys(m))
	slices.Sort(keys)
	return keys
}
