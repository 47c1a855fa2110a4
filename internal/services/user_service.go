package services

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/juliusmarkwei/swift-send/internal/db"
	"github.com/juliusmarkwei/swift-send/internal/models"
	"github.com/juliusmarkwei/swift-send/pkg/logger"
	"github.com/juliusmarkwei/swift-send/pkg/utils"

	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
)

const (
	// BcryptCost is the cost parameter for bcrypt password hashing
	BcryptCost = 12

	// MinPasswordLength is the minimum length for passwords
	MinPasswordLength = 8
)

var (
	// ErrInvalidCredentials indicates authentication failure
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidTOTP indicates TOTP code validation failure
	ErrInvalidTOTP = errors.New("invalid TOTP code")

	// ErrInvalidUsername indicates username validation failure
	ErrInvalidUsername = errors.New("username must be 3-50 characters and contain only alphanumeric characters and underscores")

	// ErrInvalidEmail indicates email validation failure
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword indicates password validation failure
	ErrInvalidPassword = errors.New("password must be at least 8 characters")
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// UserService provides business logic for account management and
// authentication
type UserService struct {
	repo          db.UserRepository
	encryptionKey string
}

// NewUserService creates a new UserService instance. encryptionKey, when
// non-empty, is used to encrypt TOTP secrets at rest.
func NewUserService(repo db.UserRepository, encryptionKey string) *UserService {
	return &UserService{
		repo:          repo,
		encryptionKey: encryptionKey,
	}
}

// Register creates a new account with a hashed password
func (s *UserService) Register(username, email, password string) (*models.User, error) {
	if !usernameRegex.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if !emailRegex.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrInvalidPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.NewUser(username, email, string(hashedPassword))
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email taken", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("Account registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return user, nil
}

// Authenticate verifies username/password and, when 2FA is enabled, the TOTP
// code
func (s *UserService) Authenticate(username, password, totpCode string) (*models.User, error) {
	user, err := s.repo.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		logger.Warn("Authentication failed - user not found", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		logger.Warn("Authentication failed - account inactive", zap.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Authentication failed - invalid password", zap.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	if user.TOTPEnabled {
		if err := s.verifyTOTP(user, totpCode); err != nil {
			logger.Warn("Authentication failed - TOTP validation failed", zap.String("user_id", user.ID))
			return nil, err
		}
	}

	now := time.Now().Unix()
	user.LastLogin = &now
	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}

	logger.Info("User authenticated", zap.String("user_id", user.ID))
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(id string) (*models.User, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: user ID is required", ErrValidation)
	}

	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}

	return user, nil
}

// GenerateTOTPSecret creates and stores a new TOTP secret for the user and
// returns it in plain form for QR provisioning
func (s *UserService) GenerateTOTPSecret(userID string) (string, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return "", err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "Swift-Send",
		AccountName: user.Username,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}

	secret := key.Secret()

	storedSecret := secret
	if s.encryptionKey != "" {
		storedSecret, err = utils.EncryptSecret(secret, s.encryptionKey)
		if err != nil {
			return "", fmt.Errorf("failed to encrypt TOTP secret: %w", err)
		}
	}

	user.TOTPSecret = &storedSecret
	if err := s.repo.Update(user); err != nil {
		return "", fmt.Errorf("failed to store TOTP secret: %w", err)
	}

	return secret, nil
}

// EnableTOTP turns on 2FA after the user proves possession of the secret
func (s *UserService) EnableTOTP(userID, totpCode string) error {
	if totpCode == "" {
		return fmt.Errorf("%w: TOTP code is required", ErrValidation)
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if user.TOTPSecret == nil || *user.TOTPSecret == "" {
		return fmt.Errorf("%w: TOTP secret not generated", ErrValidation)
	}

	if err := s.verifyTOTP(user, totpCode); err != nil {
		return err
	}

	user.TOTPEnabled = true
	if err := s.repo.Update(user); err != nil {
		return fmt.Errorf("failed to enable TOTP: %w", err)
	}

	logger.Info("2FA enabled", zap.String("user_id", user.ID))
	return nil
}

// DisableTOTP turns off 2FA and discards the stored secret
func (s *UserService) DisableTOTP(userID string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	user.TOTPEnabled = false
	user.TOTPSecret = nil
	if err := s.repo.Update(user); err != nil {
		return fmt.Errorf("failed to disable TOTP: %w", err)
	}

	logger.Info("2FA disabled", zap.String("user_id", user.ID))
	return nil
}

func (s *UserService) verifyTOTP(user *models.User, totpCode string) error {
	if totpCode == "" || user.TOTPSecret == nil {
		return ErrInvalidTOTP
	}

	secret := *user.TOTPSecret
	if s.encryptionKey != "" {
		decrypted, err := utils.DecryptSecret(secret, s.encryptionKey)
		if err != nil {
			return fmt.Errorf("failed to decrypt TOTP secret: %w", err)
		}
		secret = decrypted
	}

	if !totp.Validate(totpCode, secret) {
		return ErrInvalidTOTP
	}
	return nil
}
