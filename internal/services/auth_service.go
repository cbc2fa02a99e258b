package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hotelelegance/hotel-ops-backend/internal/models"
	"github.com/hotelelegance/hotel-ops-backend/internal/utils"
	"github.com/hotelelegance/hotel-ops-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the persistence surface for accounts and login sessions
type UserStore interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	CreateSession(session *models.LoginSession) error
}

// RegisterRequest carries the input for account registration
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginResponse is returned on successful authentication
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *models.User `json:"user"`
}

// AuthService handles account registration and login
type AuthService struct {
	users      UserStore
	jwtService *jwt.Service
	expiresIn  int64
	logger     *logrus.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, jwtService *jwt.Service, expiresInSeconds int64, logger *logrus.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		expiresIn:  expiresInSeconds,
		logger:     logger,
	}
}

// Register creates a new CLIENT account
func (s *AuthService) Register(req RegisterRequest) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Phone:        req.Phone,
		Role:         models.RoleClient,
		Active:       true,
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	s.logger.WithField("email", user.Email).Info("Account registered")
	return user, nil
}

// Login authenticates a user and records the login session with the
// client's device information.
func (s *AuthService) Login(email, password, ipAddress, userAgent string) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	if !user.Active {
		return nil, fmt.Errorf("account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid email or password")
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	session := &models.LoginSession{
		UserID:     user.ID,
		IPAddress:  ipAddress,
		DeviceInfo: utils.ParseUserAgent(userAgent).JSON(),
	}
	if err := s.users.CreateSession(session); err != nil {
		// Session auditing never blocks login
		s.logger.WithError(err).WithField("email", user.Email).Warn("Failed to record login session")
	}

	s.logger.WithFields(logrus.Fields{
		"email": user.Email,
		"role":  user.Role,
	}).Info("User logged in")

	return &LoginResponse{
		AccessToken: token,
		ExpiresIn:   s.expiresIn,
		User:        user,
	}, nil
}

// Profile retrieves a user by id
func (s *AuthService) Profile(id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(id)
}
