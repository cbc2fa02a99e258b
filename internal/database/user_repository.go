package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/jmoiron/sqlx"
)

// UserRepository handles accounts and the guest directory. The
// reservation engine uses it read-only to auto-fill guest contact
// fields.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, phone, role, active, created_at, updated_at`

// Create inserts a new user account
func (r *UserRepository) Create(user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	query := `
		INSERT INTO users (id, email, password_hash, full_name, phone, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING active, created_at, updated_at
	`
	err := r.db.QueryRowx(query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Phone, user.Role,
	).Scan(&user.Active, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	err := r.db.Get(user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	user := &models.User{}
	err := r.db.Get(user, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSession records a login session with its parsed device info
func (r *UserRepository) CreateSession(session *models.LoginSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	query := `
		INSERT INTO login_sessions (id, user_id, ip_address, device_info)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := r.db.QueryRowx(query,
		session.ID, session.UserID, session.IPAddress, session.DeviceInfo,
	).Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record login session: %w", err)
	}
	return nil
}
