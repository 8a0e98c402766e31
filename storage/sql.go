// File: storage/sql.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"car-showcase/models"
)

// database/sql driver names
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const (
	userColumns  = "id, username, password, is_admin"
	carColumns   = "id, name, year, speed, price, description, image_url, tag"
	videoColumns = "id, title, description, video_url, thumbnail_url, duration, featured, upload_date"
)

var _ EntityStore = (*SQLStorage)(nil)

// SQLStorage implements EntityStore on PostgreSQL or SQLite. Every call is a single
// statement, so each mutation is its own implicit transaction.
type SQLStorage struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// SQLOption configures a SQLStorage.
type SQLOption func(*SQLStorage)

// WithSQLClock overrides the time source used for upload dates.
func WithSQLClock(now func() time.Time) SQLOption {
	return func(s *SQLStorage) { s.now = now }
}

// NewSQLStorage wraps an open handle. The schema must already exist; see Migrate.
func NewSQLStorage(db *sql.DB, driver string, opts ...SQLOption) *SQLStorage {
	s := &SQLStorage{db: db, driver: driver, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open connects to driver/dsn, verifies the connection and applies the schema.
func Open(ctx context.Context, driver, dsn string, opts ...SQLOption) (*SQLStorage, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// each new connection to :memory: would otherwise see an empty database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := Migrate(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLStorage(db, driver, opts...), nil
}

// DB exposes the handle so the SQL session store can share the connection pool.
func (s *SQLStorage) DB() *sql.DB { return s.db }

func (s *SQLStorage) Driver() string { return s.driver }

func (s *SQLStorage) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQLStorage) Close() error { return s.db.Close() }

// isUniqueViolation recognises duplicate-key errors from either driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

type scanner interface {
	Scan(dest ...any) error
}

// ----------------------- users -----------------------

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.IsAdmin)
	return u, err
}

func (s *SQLStorage) queryUser(ctx context.Context, query string, arg any) (models.User, bool, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return u, true, nil
}

func (s *SQLStorage) GetUser(ctx context.Context, id int64) (models.User, bool, error) {
	return s.queryUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (s *SQLStorage) GetUserByUsername(ctx context.Context, username string) (models.User, bool, error) {
	return s.queryUser(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
}

func (s *SQLStorage) CreateUser(ctx context.Context, in models.NewUser) (models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx,
		"INSERT INTO users (username, password, is_admin) VALUES ($1, $2, $3) RETURNING "+userColumns,
		in.Username, in.Password, models.BoolValue(in.IsAdmin)))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrDuplicateUsername
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *SQLStorage) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *SQLStorage) UpdateUserPassword(ctx context.Context, id int64, password string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET password = $1 WHERE id = $2", password, id)
	if err != nil {
		return false, fmt.Errorf("update password: %w", err)
	}
	return affected(res)
}

// ----------------------- cars -----------------------

func scanCar(row scanner) (models.Car, error) {
	var (
		c   models.Car
		tag sql.NullString
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Year, &c.Speed, &c.Price, &c.Description, &c.ImageURL, &tag); err != nil {
		return models.Car{}, err
	}
	if tag.Valid {
		c.Tag = &tag.String
	}
	return c, nil
}

func (s *SQLStorage) GetCars(ctx context.Context) ([]models.Car, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+carColumns+" FROM cars ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := []models.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (s *SQLStorage) GetCar(ctx context.Context, id int64) (models.Car, bool, error) {
	c, err := scanCar(s.db.QueryRowContext(ctx, "SELECT "+carColumns+" FROM cars WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Car{}, false, nil
	}
	if err != nil {
		return models.Car{}, false, err
	}
	return c, true, nil
}

func (s *SQLStorage) CreateCar(ctx context.Context, in models.NewCar) (models.Car, error) {
	c, err := scanCar(s.db.QueryRowContext(ctx,
		`INSERT INTO cars (name, year, speed, price, description, image_url, tag)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+carColumns,
		in.Name, in.Year, in.Speed, in.Price, in.Description, in.ImageURL, nullString(in.Tag)))
	if err != nil {
		return models.Car{}, fmt.Errorf("insert car: %w", err)
	}
	return c, nil
}

func (s *SQLStorage) UpdateCar(ctx context.Context, id int64, patch models.CarPatch) (models.Car, bool, error) {
	if patch.Empty() {
		return s.GetCar(ctx, id)
	}
	set := newSetClause()
	set.addIf(patch.Name != nil, "name", patch.Name)
	set.addIf(patch.Year != nil, "year", patch.Year)
	set.addIf(patch.Speed != nil, "speed", patch.Speed)
	set.addIf(patch.Price != nil, "price", patch.Price)
	set.addIf(patch.Description != nil, "description", patch.Description)
	set.addIf(patch.ImageURL != nil, "image_url", patch.ImageURL)
	set.addIf(patch.Tag.Set, "tag", nullString(patch.Tag.Value))

	query, args := set.build("cars", id, carColumns)
	c, err := scanCar(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Car{}, false, nil
	}
	if err != nil {
		return models.Car{}, false, fmt.Errorf("update car %d: %w", id, err)
	}
	return c, true, nil
}

func (s *SQLStorage) DeleteCar(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cars WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete car %d: %w", id, err)
	}
	return affected(res)
}

// ----------------------- videos -----------------------

func scanVideo(row scanner) (models.Video, error) {
	var v models.Video
	if err := row.Scan(&v.ID, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL, &v.Duration, &v.Featured, timestamp{&v.UploadDate}); err != nil {
		return models.Video{}, err
	}
	v.UploadDate = v.UploadDate.UTC()
	return v, nil
}

func (s *SQLStorage) listVideos(ctx context.Context, where string) ([]models.Video, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+videoColumns+" FROM videos "+where+" ORDER BY upload_date DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (s *SQLStorage) GetVideos(ctx context.Context) ([]models.Video, error) {
	return s.listVideos(ctx, "")
}

func (s *SQLStorage) GetFeaturedVideos(ctx context.Context) ([]models.Video, error) {
	return s.listVideos(ctx, "WHERE featured = TRUE")
}

func (s *SQLStorage) GetVideo(ctx context.Context, id int64) (models.Video, bool, error) {
	v, err := scanVideo(s.db.QueryRowContext(ctx, "SELECT "+videoColumns+" FROM videos WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Video{}, false, nil
	}
	if err != nil {
		return models.Video{}, false, err
	}
	return v, true, nil
}

func (s *SQLStorage) CreateVideo(ctx context.Context, in models.NewVideo) (models.Video, error) {
	v, err := scanVideo(s.db.QueryRowContext(ctx,
		`INSERT INTO videos (title, description, video_url, thumbnail_url, duration, featured, upload_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+videoColumns,
		in.Title, in.Description, in.VideoURL, in.ThumbnailURL, in.Duration, models.BoolValue(in.Featured), uploadTime(s.now)))
	if err != nil {
		return models.Video{}, fmt.Errorf("insert video: %w", err)
	}
	return v, nil
}

func (s *SQLStorage) UpdateVideo(ctx context.Context, id int64, patch models.VideoPatch) (models.Video, bool, error) {
	if patch.Empty() {
		return s.GetVideo(ctx, id)
	}
	set := newSetClause()
	set.addIf(patch.Title != nil, "title", patch.Title)
	set.addIf(patch.Description != nil, "description", patch.Description)
	set.addIf(patch.VideoURL != nil, "video_url", patch.VideoURL)
	set.addIf(patch.ThumbnailURL != nil, "thumbnail_url", patch.ThumbnailURL)
	set.addIf(patch.Duration != nil, "duration", patch.Duration)
	set.addIf(patch.Featured != nil, "featured", patch.Featured)

	query, args := set.build("videos", id, videoColumns)
	v, err := scanVideo(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Video{}, false, nil
	}
	if err != nil {
		return models.Video{}, false, fmt.Errorf("update video %d: %w", id, err)
	}
	return v, true, nil
}

func (s *SQLStorage) DeleteVideo(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM videos WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete video %d: %w", id, err)
	}
	return affected(res)
}

func (s *SQLStorage) SetVideoFeatured(ctx context.Context, id int64, featured bool) (models.Video, bool, error) {
	return s.UpdateVideo(ctx, id, models.VideoPatch{Featured: &featured})
}

// ----------------------- helpers -----------------------

// setClause accumulates "col = $n" assignments for a partial UPDATE.
type setClause struct {
	cols []string
	args []any
}

func newSetClause() *setClause { return &setClause{} }

// addIf dereferences pointer values so drivers receive plain strings, ints and bools.
func (s *setClause) addIf(ok bool, col string, val any) {
	if !ok {
		return
	}
	switch v := val.(type) {
	case *string:
		val = *v
	case *int:
		val = *v
	case *bool:
		val = *v
	}
	s.args = append(s.args, val)
	s.cols = append(s.cols, col+" = $"+strconv.Itoa(len(s.args)))
}

func (s *setClause) build(table string, id int64, returning string) (string, []any) {
	args := append(s.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(s.cols, ", "), len(args), returning)
	return query, args
}

// timestamp scans driver timestamps. SQLite hands back text when a column's declared
// type is not visible, as with RETURNING.
type timestamp struct{ t *time.Time }

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (ts timestamp) parse(raw string) error {
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			*ts.t = t
			return nil
		}
	}
	return fmt.Errorf("unrecognised timestamp %q", raw)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
