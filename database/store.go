package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/ray-remotestate/foodwaste/database/dbhelper"
	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/store"
)

// Postgres error codes mapped onto store errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// Store is the PostgreSQL store.Store.
type Store struct {
	queries
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{queries: queries{db: db}, db: db}
}

func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return Tx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&pgTx{queries{db: tx}})
	})
}

func (s *Store) Close() error {
	return ShutdownDatabase(s.db)
}

type pgTx struct {
	queries
}

func (t *pgTx) LockStudent(ctx context.Context, id int) error {
	return translate(dbhelper.LockStudent(ctx, t.db, id))
}

func (t *pgTx) LockPackage(ctx context.Context, id int) error {
	return translate(dbhelper.LockPackage(ctx, t.db, id))
}

// queries runs against either the pool or an open transaction.
type queries struct {
	db dbhelper.SQLExecutor
}

func (q queries) CafeteriaByID(ctx context.Context, id int) (*models.Cafeteria, error) {
	c, err := dbhelper.GetCafeteriaByID(ctx, q.db, id)
	return c, translate(err)
}

func (q queries) ListCafeterias(ctx context.Context) ([]models.Cafeteria, error) {
	c, err := dbhelper.ListCafeterias(ctx, q.db)
	return c, translate(err)
}

func (q queries) ProductsByIDs(ctx context.Context, ids []int) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	p, err := dbhelper.GetProductsByIDs(ctx, q.db, ids)
	return p, translate(err)
}

func (q queries) StudentByID(ctx context.Context, id int) (*models.Student, error) {
	s, err := dbhelper.GetStudentByID(ctx, q.db, id)
	return s, translate(err)
}

func (q queries) StudentByNumber(ctx context.Context, number string) (*models.Student, error) {
	s, err := dbhelper.GetStudentByNumber(ctx, q.db, number)
	return s, translate(err)
}

func (q queries) ListStudents(ctx context.Context) ([]models.Student, error) {
	s, err := dbhelper.ListStudents(ctx, q.db)
	return s, translate(err)
}

func (q queries) PackageByID(ctx context.Context, id int) (*models.Package, error) {
	p, err := dbhelper.GetPackageByID(ctx, q.db, id)
	return p, translate(err)
}

func (q queries) ListPackages(ctx context.Context, filter models.PackageFilter) ([]models.Package, error) {
	p, err := dbhelper.ListPackages(ctx, q.db, filter)
	return p, translate(err)
}

func (q queries) ReservationByID(ctx context.Context, id int) (*models.Reservation, error) {
	r, err := dbhelper.GetReservationByID(ctx, q.db, id)
	return r, translate(err)
}

func (q queries) ListReservations(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error) {
	r, err := dbhelper.ListReservations(ctx, q.db, filter)
	return r, translate(err)
}

func (q queries) StudentHasReservationOn(ctx context.Context, studentID int, day time.Time) (bool, error) {
	ok, err := dbhelper.HasReservationOnDate(ctx, q.db, studentID, day)
	return ok, translate(err)
}

func (q queries) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := dbhelper.GetUserByEmail(ctx, q.db, email)
	return u, translate(err)
}

func (q queries) InsertCafeteria(ctx context.Context, c *models.Cafeteria) error {
	return translate(dbhelper.CreateCafeteria(ctx, q.db, c))
}

func (q queries) InsertStaff(ctx context.Context, s *models.CafeteriaStaff) error {
	return translate(dbhelper.CreateStaff(ctx, q.db, s))
}

func (q queries) InsertProduct(ctx context.Context, p *models.Product) error {
	return translate(dbhelper.CreateProduct(ctx, q.db, p))
}

func (q queries) InsertStudent(ctx context.Context, s *models.Student) error {
	return translate(dbhelper.CreateStudent(ctx, q.db, s))
}

func (q queries) UpdateStudent(ctx context.Context, s *models.Student) error {
	n, err := dbhelper.UpdateStudent(ctx, q.db, s)
	return affected(n, err)
}

func (q queries) DeleteStudent(ctx context.Context, id int) error {
	n, err := dbhelper.DeleteStudent(ctx, q.db, id)
	return affected(n, err)
}

func (q queries) InsertPackage(ctx context.Context, p *models.Package) error {
	return translate(dbhelper.CreatePackage(ctx, q.db, p))
}

func (q queries) UpdatePackage(ctx context.Context, p *models.Package) error {
	n, err := dbhelper.UpdatePackage(ctx, q.db, p)
	return affected(n, err)
}

func (q queries) DeletePackage(ctx context.Context, id int) error {
	n, err := dbhelper.DeletePackage(ctx, q.db, id)
	return affected(n, err)
}

func (q queries) SetPackageReservation(ctx context.Context, id int, from, to models.ReservationStatus, reservedBy *int) (bool, error) {
	n, err := dbhelper.SetPackageReservation(ctx, q.db, id, from, to, reservedBy)
	if err != nil {
		return false, translate(err)
	}
	if n == 1 {
		return true, nil
	}

	exists, err := dbhelper.PackageExists(ctx, q.db, id)
	if err != nil {
		return false, translate(err)
	}
	if !exists {
		return false, store.ErrNotFound
	}
	return false, nil
}

func (q queries) InsertReservation(ctx context.Context, r *models.Reservation) error {
	return translate(dbhelper.CreateReservation(ctx, q.db, r))
}

func (q queries) DeleteReservation(ctx context.Context, id int) error {
	n, err := dbhelper.DeleteReservation(ctx, q.db, id)
	return affected(n, err)
}

func (q queries) InsertUser(ctx context.Context, u *models.User) error {
	return translate(dbhelper.CreateUser(ctx, q.db, u))
}

func affected(n int64, err error) error {
	if err != nil {
		return translate(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return errors.Join(store.ErrDuplicate, err)
		case pqForeignKeyViolation:
			return errors.Join(store.ErrNotFound, err)
		}
	}
	return err
}
