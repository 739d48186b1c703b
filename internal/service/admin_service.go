package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AdminService defines the interface for back-office authentication
type AdminService interface {
	Login(email, password string) (accessToken string, admin *domain.Admin, err error)
}

// Claims represents the JWT claims; the subject is the admin email
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type adminService struct {
	admin        domain.Admin
	jwtSecret    string
	accessExpiry time.Duration
}

// NewAdminService creates a new instance of AdminService for the single
// configured operator
func NewAdminService(email, passwordHash, jwtSecret string, accessExpiry time.Duration) AdminService {
	return &adminService{
		admin: domain.Admin{
			Email:        strings.ToLower(strings.TrimSpace(email)),
			PasswordHash: passwordHash,
			Role:         domain.RoleAdmin,
		},
		jwtSecret:    jwtSecret,
		accessExpiry: accessExpiry,
	}
}

// Login checks the credentials and issues an access token. Without a
// signing secret no token is ever issued.
func (s *adminService) Login(email, password string) (string, *domain.Admin, error) {
	if s.admin.Email == "" || s.admin.PasswordHash == "" || s.jwtSecret == "" {
		return "", nil, ErrInvalidCredentials
	}

	email = strings.ToLower(strings.TrimSpace(email))
	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(s.admin.Email)) == 1
	// bcrypt runs even when the email does not match
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password))
	if !emailMatch || passwordErr != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.generateAccessToken()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	admin := s.admin
	return token, &admin, nil
}

func (s *adminService) generateAccessToken() (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: s.admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.admin.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
