// Package store is the persistence gateway for users and their hisaabs.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"khaata/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a user or hisaab does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUserExists is returned when creating a user whose username is taken.
	ErrUserExists = errors.New("user already exists")
)

// Store wraps a gorm handle opened once at startup.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the users and hisaabs tables.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	if err := s.db.AutoMigrate(&models.Hisaab{}); err != nil {
		return fmt.Errorf("migrate hisaabs: %w", err)
	}
	return nil
}

// UserExists reports whether a user with username is stored.
func (s *Store) UserExists(ctx context.Context, username string) (bool, error) {
	var cnt int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&cnt).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return cnt > 0, nil
}

// FindUser loads a user and its hisaabs in insertion order.
func (s *Store) FindUser(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Preload("Hisaabs", byInsertion).
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &u, nil
}

// ListUsers returns every user with its hisaabs.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Preload("Hisaabs", byInsertion).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// CreateUser inserts u. The password must already be hashed.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueConstraintError(err) {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// SetPassword replaces the stored password hash of username.
func (s *Store) SetPassword(ctx context.Context, username string, hash []byte) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Update("password", hash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllUsers removes every user and hisaab and returns the number of users removed.
func (s *Store) DeleteAllUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&models.Hisaab{}).Error; err != nil {
			return fmt.Errorf("delete hisaabs: %w", err)
		}
		res := all.Delete(&models.User{})
		if res.Error != nil {
			return fmt.Errorf("delete users: %w", res.Error)
		}
		n = res.RowsAffected
		return nil
	})
	return n, err
}

// AppendHisaab inserts h as the newest hisaab of username. The insert is keyed
// by the owner's id, so concurrent appends for the same user never overwrite
// each other.
func (s *Store) AppendHisaab(ctx context.Context, username string, h *models.Hisaab) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Select("id").Where("username = ?", username).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find user %q: %w", username, err)
		}
		h.UserID = u.ID
		if err := tx.Create(h).Error; err != nil {
			return fmt.Errorf("insert hisaab: %w", err)
		}
		return nil
	})
}

// HisaabsBetween returns the hisaabs of username dated in [start, end).
func (s *Store) HisaabsBetween(ctx context.Context, username string, start, end time.Time) ([]models.Hisaab, error) {
	var rows []models.Hisaab
	err := s.db.WithContext(ctx).
		Joins("JOIN users ON users.id = hisaabs.user_id").
		Where("users.username = ? AND hisaabs.date >= ? AND hisaabs.date < ?", username, start, end).
		Order("hisaabs.date, hisaabs.id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query hisaabs: %w", err)
	}
	return rows, nil
}

func byInsertion(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}
