package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"reqgen/internal/domain/models"
)

// Store is the shared state behind every in-memory repository.
// Slices keep insertion order; maps index by ID.
type Store struct {
	mu sync.RWMutex

	documents map[string]models.Document
	docOrder  []string

	users     map[string]userRecord
	userOrder []string

	notifications map[string]models.Notification
	notifOrder    []string
	receipts      []models.UserNotification

	settings *models.Settings

	dirty  bool
	logger *slog.Logger
}

// userRecord keeps the password hash, which models.User hides from JSON
type userRecord struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"passwordHash"`
	Role         models.Role `json:"role"`
	Name         string      `json:"name"`
}

func (u userRecord) toModel() models.User {
	return models.User{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Name:         u.Name,
	}
}

func newUserRecord(u *models.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Name:         u.Name,
	}
}

// snapshot is the on-disk and rollback representation of a Store
type snapshot struct {
	Settings      *models.Settings          `json:"settings,omitempty"`
	Users         []userRecord              `json:"users"`
	Documents     []models.Document         `json:"documents"`
	Notifications []models.Notification     `json:"notifications"`
	Receipts      []models.UserNotification `json:"userNotifications"`
}

// NewStore creates an empty store
func NewStore(logger *slog.Logger) *Store {
	return &Store{
		documents:     make(map[string]models.Document),
		users:         make(map[string]userRecord),
		notifications: make(map[string]models.Notification),
		logger:        logger,
	}
}

// snapshotLocked copies the current state. Caller holds mu.
func (s *Store) snapshotLocked() *snapshot {
	snap := &snapshot{
		Users:         make([]userRecord, 0, len(s.userOrder)),
		Documents:     make([]models.Document, 0, len(s.docOrder)),
		Notifications: make([]models.Notification, 0, len(s.notifOrder)),
		Receipts:      append([]models.UserNotification(nil), s.receipts...),
	}
	if s.settings != nil {
		settings := *s.settings
		snap.Settings = &settings
	}
	for _, id := range s.userOrder {
		snap.Users = append(snap.Users, s.users[id])
	}
	for _, id := range s.docOrder {
		snap.Documents = append(snap.Documents, s.documents[id])
	}
	for _, id := range s.notifOrder {
		snap.Notifications = append(snap.Notifications, s.notifications[id])
	}
	return snap
}

// restoreLocked replaces the current state. Caller holds mu.
func (s *Store) restoreLocked(snap *snapshot) {
	s.settings = snap.Settings

	s.users = make(map[string]userRecord, len(snap.Users))
	s.userOrder = s.userOrder[:0]
	for _, u := range snap.Users {
		s.users[u.ID] = u
		s.userOrder = append(s.userOrder, u.ID)
	}

	s.documents = make(map[string]models.Document, len(snap.Documents))
	s.docOrder = s.docOrder[:0]
	for _, d := range snap.Documents {
		s.documents[d.ID] = d
		s.docOrder = append(s.docOrder, d.ID)
	}

	s.notifications = make(map[string]models.Notification, len(snap.Notifications))
	s.notifOrder = s.notifOrder[:0]
	for _, n := range snap.Notifications {
		s.notifications[n.ID] = n
		s.notifOrder = append(s.notifOrder, n.ID)
	}

	s.receipts = append([]models.UserNotification(nil), snap.Receipts...)
}

// LoadFile restores the store from a JSON snapshot. A missing file is not an error.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	s.mu.Lock()
	s.restoreLocked(&snap)
	s.dirty = false
	s.mu.Unlock()

	s.logger.Info("loaded storage snapshot",
		"path", path,
		"documents", len(snap.Documents),
		"users", len(snap.Users),
		"notifications", len(snap.Notifications),
	)
	return nil
}

// SaveFile writes the store to a JSON snapshot if anything changed since the last save.
// The file is written to a temporary name and renamed into place.
func (s *Store) SaveFile(path string) error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	snap := s.snapshotLocked()
	s.dirty = false
	s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".reqgen-snapshot-*")
	if err != nil {
		return s.saveFailed(fmt.Errorf("create snapshot file: %w", err))
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return s.saveFailed(fmt.Errorf("write snapshot: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return s.saveFailed(fmt.Errorf("close snapshot: %w", err))
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return s.saveFailed(fmt.Errorf("replace snapshot: %w", err))
	}

	s.logger.Debug("storage snapshot saved", "path", path, "documents", len(snap.Documents))
	return nil
}

// saveFailed re-marks the store dirty so the next flush retries
func (s *Store) saveFailed(err error) error {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
	return err
}

// markDirty records a mutation. Caller holds mu.
func (s *Store) markDirty() {
	s.dirty = true
}
