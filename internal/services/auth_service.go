package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"chatorder/internal/models"
	"chatorder/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials hides whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles staff authentication.
type AuthService struct {
	staffRepo  repositories.StaffRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(staffRepo repositories.StaffRepository, jwtSecret string) *AuthService {
	return &AuthService{
		staffRepo:  staffRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RegisterStaff stores a new staff account with a bcrypt-hashed password.
func (s *AuthService) RegisterStaff(username, password string) (*models.Staff, error) {
	if existing, err := s.staffRepo.GetByUsername(username); err == nil && existing != nil {
		return nil, fmt.Errorf("username '%s' already taken", username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := &models.Staff{Username: username, PasswordHash: string(hashed)}
	if err := s.staffRepo.Create(staff); err != nil {
		return nil, fmt.Errorf("failed to register staff: %w", err)
	}
	return staff, nil
}

// EnsureStaff registers username unless the account already exists.
func (s *AuthService) EnsureStaff(username, password string) error {
	if _, err := s.staffRepo.GetByUsername(username); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrStaffNotFound) {
		return err
	}
	_, err := s.RegisterStaff(username, password)
	return err
}

// Login checks the credentials and returns a signed JWT.
func (s *AuthService) Login(username, password string) (string, error) {
	staff, err := s.staffRepo.GetByUsername(username)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"staff_id": staff.ID,
		"username": staff.Username,
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
