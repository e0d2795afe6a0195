package services

import (
	"sync"
	"time"

	"github.com/remstroy/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevocationRegistry tracks refresh token jtis that must never be exchanged
// again. It is injected into AuthService so tests can use the in-memory
// store and production a shared database table.
type RevocationRegistry interface {
	// Revoke inserts the jti. It reports whether this call performed the
	// insert: when two concurrent refreshes present the same token, only
	// one caller observes true, which decides the rotation race.
	Revoke(jti string, expiresAt time.Time) (bool, error)

	// IsRevoked reports whether the jti has been revoked.
	IsRevoked(jti string) (bool, error)

	// Sweep removes entries whose expiry passed before now. Safe because an
	// expired jti is already rejected on expiry grounds.
	Sweep(now time.Time) (int64, error)
}

// GormRevocationStore persists revocations in the revoked_tokens table.
type GormRevocationStore struct {
	db *gorm.DB
}

func NewGormRevocationStore(db *gorm.DB) *GormRevocationStore {
	return &GormRevocationStore{db: db}
}

func (s *GormRevocationStore) Revoke(jti string, expiresAt time.Time) (bool, error) {
	entry := models.RevokedToken{JTI: jti, ExpiresAt: expiresAt}
	// Conditional insert on the jti unique index keeps revoke-and-check
	// atomic; a plain read-then-write would reopen the replay window.
	result := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "jti"}},
		DoNothing: true,
	}).Create(&entry)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *GormRevocationStore) IsRevoked(jti string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.RevokedToken{}).Where("jti = ?", jti).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *GormRevocationStore) Sweep(now time.Time) (int64, error) {
	result := s.db.Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}

// MemoryRevocationStore is a map-backed registry for tests and single-node
// setups without a database.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{entries: make(map[string]time.Time)}
}

func (s *MemoryRevocationStore) Revoke(jti string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[jti]; exists {
		return false, nil
	}
	s.entries[jti] = expiresAt
	return true, nil
}

func (s *MemoryRevocationStore) IsRevoked(jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.entries[jti]
	return exists, nil
}

func (s *MemoryRevocationStore) Sweep(now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for jti, expiresAt := range s.entries {
		if expiresAt.Before(now) {
			delete(s.entries, jti)
			removed++
		}
	}
	return removed, nil
}
