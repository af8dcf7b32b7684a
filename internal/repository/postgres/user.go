package postgres

import (
	"database/sql"

	"wordflow/internal/domain"
)

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetUser returns the user, or nil if it doesn't exist yet
func (r *UserRepo) GetUser(userID int64) (*domain.User, error) {
	var u domain.User
	var email, cookie sql.NullString
	query := `
		SELECT user_id, email, session_cookie, authorized, created_at
		FROM bot_users
		WHERE user_id = $1
	`
	err := r.db.QueryRow(query, userID).Scan(&u.UserID, &email, &cookie, &u.Authorized, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.Email = email.String
	u.SessionCookie = cookie.String
	return &u, nil
}

// IsAuthorized checks if user has a backend session
func (r *UserRepo) IsAuthorized(userID int64) (bool, error) {
	var authorized bool
	query := `SELECT authorized FROM bot_users WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).Scan(&authorized)

	if err == sql.ErrNoRows {
		// User doesn't exist yet
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return authorized, nil
}

// EnsureUserExists creates user if not exists
func (r *UserRepo) EnsureUserExists(userID int64) error {
	query := `
		INSERT INTO bot_users (user_id, authorized)
		VALUES ($1, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.Exec(query, userID)
	return err
}

// SaveSession stores the backend session and marks user as authorized
func (r *UserRepo) SaveSession(userID int64, email, cookie string) error {
	query := `
		INSERT INTO bot_users (user_id, email, session_cookie, authorized)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (user_id)
		DO UPDATE SET email = EXCLUDED.email, session_cookie = EXCLUDED.session_cookie, authorized = TRUE
	`
	_, err := r.db.Exec(query, userID, email, cookie)
	return err
}

// ClearSession forgets the backend session
func (r *UserRepo) ClearSession(userID int64) error {
	query := `
		UPDATE bot_users
		SET session_cookie = NULL, authorized = FALSE
		WHERE user_id = $1
	`
	_, err := r.db.Exec(query, userID)
	return err
}
