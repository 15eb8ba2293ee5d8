package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type Role string

const (
	RolePhysicist     Role = "Physicist"
	RoleDosimetrist   Role = "Dosimetrist"
	RoleAdministrator Role = "Administrator"
)

func (r Role) Valid() bool {
	switch r {
	case RolePhysicist, RoleDosimetrist, RoleAdministrator:
		return true
	}
	return false
}

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// LogRecord is one saved calculation. CalculationValues holds the input and
// derived parameters as a JSON object of strings.
type LogRecord struct {
	ID                int64     `json:"id"`
	Username          string    `json:"username"`
	CalculationType   string    `json:"calculation_type"`
	CalculationValues string    `json:"calculation_values"`
	Result            string    `json:"result"`
	CreatedAt         time.Time `json:"created_at"`
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) (int64, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id int64, fullName string, role Role) error
	DeleteUser(ctx context.Context, id int64) error
}

type LogRepository interface {
	AppendLog(ctx context.Context, rec LogRecord) (int64, error)
	StreamLogs(ctx context.Context, fn func(LogRecord) error) error
	ListLogs(ctx context.Context) ([]LogRecord, error)
	DeleteAllLogs(ctx context.Context) (int64, error)
}

type Repository interface {
	UserRepository
	LogRepository
}

// SQLRepository works on both the sqlite and postgres schemas.
type SQLRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, now: time.Now}
}

func (r *SQLRepository) CreateUser(ctx context.Context, u User) (int64, error) {
	var id int64
	query := "INSERT INTO users (username, full_name, password, role) VALUES ($1, $2, $3, $4) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, u.Username, u.FullName, u.PasswordHash, string(u.Role)).Scan(&id)
	return id, err
}

func (r *SQLRepository) GetByUsername(ctx context.Context, username string) (User, error) {
	var u User
	var role string
	query := "SELECT id, username, full_name, password, role FROM users WHERE username=$1"
	err := r.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.FullName, &u.PasswordHash, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.Role = Role(role)
	return u, nil
}

func (r *SQLRepository) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, username, full_name, role FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var role string
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &role); err != nil {
			return nil, err
		}
		u.Role = Role(role)
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *SQLRepository) UpdateUser(ctx context.Context, id int64, fullName string, role Role) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET full_name=$1, role=$2 WHERE id=$3", fullName, string(role), id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

func (r *SQLRepository) DeleteUser(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id=$1", id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// AppendLog stores rec and returns its generated ID. A zero CreatedAt is
// set to the current time.
func (r *SQLRepository) AppendLog(ctx context.Context, rec LogRecord) (int64, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now()
	}
	var id int64
	query := `INSERT INTO data_logs (username, calculation_type, calculation_values, result, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		rec.Username, rec.CalculationType, rec.CalculationValues, rec.Result, rec.CreatedAt.UnixMilli()).Scan(&id)
	return id, err
}

// StreamLogs calls fn for every record, newest first. An error from fn
// stops the iteration and is returned.
func (r *SQLRepository) StreamLogs(ctx context.Context, fn func(LogRecord) error) error {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username, calculation_type, calculation_values, result, created_at
		FROM data_logs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rec LogRecord
		var ms int64
		if err := rows.Scan(&rec.ID, &rec.Username, &rec.CalculationType, &rec.CalculationValues, &rec.Result, &ms); err != nil {
			return err
		}
		rec.CreatedAt = time.UnixMilli(ms)
		if err := fn(rec); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *SQLRepository) ListLogs(ctx context.Context) ([]LogRecord, error) {
	var logs []LogRecord
	err := r.StreamLogs(ctx, func(rec LogRecord) error {
		logs = append(logs, rec)
		return nil
	})
	return logs, err
}

func (r *SQLRepository) DeleteAllLogs(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM data_logs")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
