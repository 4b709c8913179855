package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"mindlog/internal/models"
)

var (
	// ErrDuplicateUsername indicates the username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user. Uniqueness of username and email is enforced
// by the database constraints, so two concurrent registrations with the same
// name cannot both succeed.
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_username_key":
				return ErrDuplicateUsername
			case "users_email_key":
				return ErrDuplicateEmail
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByUsername retrieves a user by username
func (r *Repository) FindUserByUsername(username string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at
		FROM users
		WHERE username = $1`
	err := r.db.QueryRow(query, username).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateEntry persists a journal entry for its owner
func (r *Repository) CreateEntry(entry *models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (user_id, entry_date, encrypted_content, emotion, emotion_score, created_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, entry.UserID, entry.EntryDate, entry.EncryptedContent, entry.Emotion, entry.EmotionScore).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

// FindEntriesSince returns the user's entries with entry_date >= from,
// ascending by date. Encrypted content is not selected.
func (r *Repository) FindEntriesSince(userID int64, from time.Time) ([]models.JournalEntry, error) {
	query := `
		SELECT id, user_id, entry_date, emotion, emotion_score
		FROM journal_entries
		WHERE user_id = $1 AND entry_date >= $2
		ORDER BY entry_date`
	rows, err := r.db.Query(query, userID, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListEntriesByUser returns all of the user's entries, ascending by date
func (r *Repository) ListEntriesByUser(userID int64) ([]models.JournalEntry, error) {
	query := `
		SELECT id, user_id, entry_date, emotion, emotion_score
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY entry_date`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListUsersActiveSince returns users who created at least one entry dated on
// or after from. Used by the weekly digest job.
func (r *Repository) ListUsersActiveSince(from time.Time) ([]models.User, error) {
	query := `
		SELECT DISTINCT u.id, u.username, u.email
		FROM users u
		JOIN journal_entries e ON e.user_id = u.id
		WHERE e.entry_date >= $1
		ORDER BY u.id`
	rows, err := r.db.Query(query, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query active users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return users, nil
}

func scanEntries(rows *sql.Rows) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.EntryDate, &e.Emotion, &e.EmotionScore); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return entries, nil
}
