package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"refereehub/internal/domain"
)

const userColumns = `id, email, first_name, last_name, phone, city, referee_code, level, zone_id, role, is_active, password_hash, salt, created_at, updated_at`

type userRepository struct {
	DB *sql.DB
}

// NewUserRepository returns a domain.UserRepository implemented with Postgres.
func NewUserRepository(db *sql.DB) domain.UserRepository {
	return &userRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var phone, city, code, zoneID sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &phone, &city, &code, &u.Level, &zoneID,
		&u.Role, &u.IsActive, &u.PasswordHash, &u.Salt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Phone = phone.String
	u.City = city.String
	u.RefereeCode = code.String
	u.ZoneID = fromNullString(zoneID)
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (email, first_name, last_name, phone, city, referee_code, level, zone_id, role, is_active, password_hash, salt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, u.Email, u.FirstName, u.LastName, u.Phone, u.City, u.RefereeCode,
		u.Level, toNullString(u.ZoneID), u.Role, u.IsActive, u.PasswordHash, u.Salt, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = $1`
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) List(ctx context.Context, filter domain.UserFilter, params domain.PaginationParams) ([]*domain.User, int, error) {
	var w whereBuilder
	if filter.ZoneID != "" {
		w.add("zone_id = ?", filter.ZoneID)
	}
	if filter.Level != "" {
		w.add("level = ?", filter.Level)
	}
	if filter.Role != "" {
		w.add("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		w.add("is_active = ?", *filter.IsActive)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		w.add("(first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR referee_code ILIKE ?)", "%"+s+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM users ` + w.clause()
	if err := r.DB.QueryRowContext(ctx, countQuery, w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	page, args := w.pageClause(params.Limit(), params.Offset())
	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY last_name, first_name %s`, userColumns, w.clause(), page)
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *userRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1) ORDER BY last_name, first_name`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	b := newUpdateBuilder()
	if patch.FirstName != nil {
		b.set("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		b.set("last_name", *patch.LastName)
	}
	if patch.Phone != nil {
		b.set("phone", *patch.Phone)
	}
	if patch.City != nil {
		b.set("city", *patch.City)
	}
	if patch.RefereeCode != nil {
		b.set("referee_code", *patch.RefereeCode)
	}
	if patch.Level != nil {
		b.set("level", *patch.Level)
	}
	if patch.ZoneID != nil {
		b.set("zone_id", toNullString(patch.ZoneID))
	}
	if patch.IsActive != nil {
		b.set("is_active", *patch.IsActive)
	}
	if b.empty() {
		return r.GetByID(ctx, id)
	}
	set, args, idArg := b.build(id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = %s RETURNING %s`, set, idArg, userColumns)
	u, err := scanUser(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
