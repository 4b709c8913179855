package service

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"mindlog/internal/config"
	"mindlog/internal/inference"
	"mindlog/internal/models"
	"mindlog/internal/utils"
)

var (
	// ErrUnknownUser indicates no account exists for the given username.
	ErrUnknownUser = errors.New("user not found, please create a new account")
	// ErrBadPassword indicates the password did not match.
	ErrBadPassword = errors.New("incorrect password")
	// ErrInvalidToken indicates the token failed signature or structural checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates the token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrUnknownSubject indicates the token subject no longer resolves to an account.
	ErrUnknownSubject = errors.New("token subject unknown")
	// ErrEmptyTranscription indicates the audio transcribed to nothing usable.
	ErrEmptyTranscription = errors.New("could not transcribe audio")
	// ErrInvalidDate indicates the entry date was not a valid YYYY-MM-DD date.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

// Storage is the persistence surface the service depends on
type Storage interface {
	CreateUser(user *models.User) error
	FindUserByUsername(username string) (*models.User, error)
	CreateEntry(entry *models.JournalEntry) error
	FindEntriesSince(userID int64, from time.Time) ([]models.JournalEntry, error)
	ListEntriesByUser(userID int64) ([]models.JournalEntry, error)
	ListUsersActiveSince(from time.Time) ([]models.User, error)
}

// Mailer sends account emails. Sends are best-effort; failures are logged and
// never fail the operation that triggered them.
type Mailer interface {
	SendWelcome(to, username string) error
	SendWeeklyDigest(to, username, emotion string, entryCount int) error
}

// Service handles business logic
type Service struct {
	repo        Storage
	classifier  inference.Classifier
	transcriber inference.Transcriber
	cipher      *utils.Cipher
	mailer      Mailer
	log         *logrus.Logger
	config      *config.Config
}

// NewService initializes a new service. mailer and transcriber may be nil when
// SMTP or speech-to-text is not configured.
func NewService(repo Storage, classifier inference.Classifier, transcriber inference.Transcriber,
	cipher *utils.Cipher, mailer Mailer, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{
		repo:        repo,
		classifier:  classifier,
		transcriber: transcriber,
		cipher:      cipher,
		mailer:      mailer,
		log:         log,
		config:      cfg,
	}
}
