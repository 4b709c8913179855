package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"mindlog/internal/config"
	"mindlog/internal/inference"
	"mindlog/internal/models"
	"mindlog/internal/repository"
	"mindlog/internal/utils"
)

type mockStorage struct {
	createUserFn       func(user *models.User) error
	findUserFn         func(username string) (*models.User, error)
	createEntryFn      func(entry *models.JournalEntry) error
	findEntriesSinceFn func(userID int64, from time.Time) ([]models.JournalEntry, error)
	listEntriesFn      func(userID int64) ([]models.JournalEntry, error)
	listActiveFn       func(from time.Time) ([]models.User, error)
}

func (m *mockStorage) CreateUser(user *models.User) error {
	if m.createUserFn != nil {
		return m.createUserFn(user)
	}
	user.ID = 1
	return nil
}

func (m *mockStorage) FindUserByUsername(username string) (*models.User, error) {
	if m.findUserFn != nil {
		return m.findUserFn(username)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockStorage) CreateEntry(entry *models.JournalEntry) error {
	if m.createEntryFn != nil {
		return m.createEntryFn(entry)
	}
	entry.ID = 1
	return nil
}

func (m *mockStorage) FindEntriesSince(userID int64, from time.Time) ([]models.JournalEntry, error) {
	if m.findEntriesSinceFn != nil {
		return m.findEntriesSinceFn(userID, from)
	}
	return nil, nil
}

func (m *mockStorage) ListEntriesByUser(userID int64) ([]models.JournalEntry, error) {
	if m.listEntriesFn != nil {
		return m.listEntriesFn(userID)
	}
	return nil, nil
}

func (m *mockStorage) ListUsersActiveSince(from time.Time) ([]models.User, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(from)
	}
	return nil, nil
}

// memStorage is a stateful in-memory Storage for multi-account scenarios
type memStorage struct {
	users   []models.User
	entries []models.JournalEntry
	nextID  int64
}

func newMemStorage() *memStorage {
	return &memStorage{nextID: 1}
}

func (m *memStorage) CreateUser(user *models.User) error {
	for _, u := range m.users {
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users = append(m.users, *user)
	return nil
}

func (m *memStorage) FindUserByUsername(username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memStorage) CreateEntry(entry *models.JournalEntry) error {
	entry.ID = m.nextID
	m.nextID++
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memStorage) FindEntriesSince(userID int64, from time.Time) ([]models.JournalEntry, error) {
	var out []models.JournalEntry
	for _, e := range m.entries {
		if e.UserID == userID && !e.EntryDate.Before(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.Before(out[j].EntryDate) })
	return out, nil
}

func (m *memStorage) ListEntriesByUser(userID int64) ([]models.JournalEntry, error) {
	var out []models.JournalEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.Before(out[j].EntryDate) })
	return out, nil
}

func (m *memStorage) ListUsersActiveSince(from time.Time) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		entries, _ := m.FindEntriesSince(u.ID, from)
		if len(entries) > 0 {
			out = append(out, u)
		}
	}
	return out, nil
}

type mockClassifier struct {
	classifyFn func(text string) ([]float64, error)
}

func (m *mockClassifier) Classify(text string) ([]float64, error) {
	if m.classifyFn != nil {
		return m.classifyFn(text)
	}
	return nil, errors.New("classifier not configured")
}

// vectorFor builds a probability vector peaking at the given label
func vectorFor(t *testing.T, label string, score float64) []float64 {
	t.Helper()
	idx := models.LabelIndex(label)
	require.GreaterOrEqual(t, idx, 0, "unknown label %q", label)
	probs := make([]float64, models.NumEmotions)
	probs[idx] = score
	return probs
}

type mockTranscriber struct {
	transcribeFn func(ctx context.Context, path string) (string, error)
}

func (m *mockTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	if m.transcribeFn != nil {
		return m.transcribeFn(ctx, path)
	}
	return "", nil
}

type mockMailer struct {
	welcomeFn func(to, username string) error
	digestFn  func(to, username, emotion string, entryCount int) error
}

func (m *mockMailer) SendWelcome(to, username string) error {
	if m.welcomeFn != nil {
		return m.welcomeFn(to, username)
	}
	return nil
}

func (m *mockMailer) SendWeeklyDigest(to, username, emotion string, entryCount int) error {
	if m.digestFn != nil {
		return m.digestFn(to, username, emotion, entryCount)
	}
	return nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  24 * time.Hour,
	}
}

func newTestService(t *testing.T, storage Storage, classifier inference.Classifier, transcriber inference.Transcriber) *Service {
	t.Helper()
	c, err := utils.NewCipher([]byte("0123456789abcdef0123456789abcdef"), "test-hmac")
	require.NoError(t, err)
	return NewService(storage, classifier, transcriber, c, nil, testLogger(), testConfig())
}
