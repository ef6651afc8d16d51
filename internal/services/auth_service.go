// auth_service.go
//
// Multi-tenant practice management service for chartered accountant firms
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of practice-portal.
// practice-portal is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// practice-portal is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with practice-portal.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/localnerve/practice-portal/internal/access"
	"github.com/localnerve/practice-portal/internal/config"
	"github.com/localnerve/practice-portal/internal/models"
	"github.com/localnerve/practice-portal/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MinPasswordLength is enforced on every password set through the API
const MinPasswordLength = 8

const invalidCredentials = "Invalid credentials"

var (
	dummyHash     []byte
	dummyHashOnce sync.Once
)

// Auth issues and verifies session tokens
type Auth struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// NewAuth builds the token service from configuration
func NewAuth(cfg *config.Config) *Auth {
	return &Auth{
		AccessSecret:  []byte(cfg.JWTSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}
}

// UserView is the user projection returned by session and user endpoints
type UserView struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Role     models.Role       `json:"role"`
	Status   models.UserStatus `json:"status"`
	FirmID   *string           `json:"firmId"`
	ClientID *string           `json:"clientId,omitempty"`
	FirmName *string           `json:"firmName,omitempty"`
	models.Permissions
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserView projects a user row
func NewUserView(u *models.User) UserView {
	return UserView{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Status:      u.Status,
		FirmID:      u.FirmID,
		Permissions: u.Permissions,
		CreatedAt:   u.CreatedAt,
	}
}

// Session is the result of a successful login or refresh
type Session struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         UserView `json:"user"`
}

// HashPassword bcrypt-hashes a password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// comparePassword checks a password against a hash. A nil user hash is compared against
// a fixed dummy hash so unknown emails cost the same as wrong passwords.
func comparePassword(hash string, password string) bool {
	if hash == "" {
		dummyHashOnce.Do(func() {
			dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
		})
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Login verifies credentials and issues a token pair.
// Unknown email, wrong password and disabled user all fail with the same error.
func (a *Auth) Login(db *gorm.DB, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, types.Validation("Email and password are required")
	}

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ok := comparePassword(user.PasswordHash, password)
	if !ok || !user.IsActive() {
		return nil, types.Unauthorized(invalidCredentials)
	}

	return a.issue(db, &user)
}

// Refresh exchanges a refresh token for a new token pair
func (a *Auth) Refresh(db *gorm.DB, refreshToken string) (*Session, error) {
	userID, err := a.verify(refreshToken, a.RefreshSecret)
	if err != nil {
		return nil, err
	}
	user, err := loadActiveUser(db, userID)
	if err != nil {
		return nil, err
	}
	return a.issue(db, user)
}

// Authenticate resolves an access token to a fresh caller context.
// The token only names the user; role, firm and flags come from the current row.
func (a *Auth) Authenticate(db *gorm.DB, accessToken string) (access.Caller, error) {
	userID, err := a.verify(accessToken, a.AccessSecret)
	if err != nil {
		return access.Caller{}, err
	}
	user, err := loadActiveUser(db, userID)
	if err != nil {
		return access.Caller{}, err
	}
	clientID, err := clientIDForUser(db, user)
	if err != nil {
		return access.Caller{}, err
	}
	return access.NewCaller(user, clientID), nil
}

// CurrentUser returns the session projection of the caller
func CurrentUser(db *gorm.DB, caller access.Caller) (*UserView, error) {
	user, err := loadActiveUser(db, caller.UserID)
	if err != nil {
		return nil, err
	}
	view, err := sessionView(db, user)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ChangePassword replaces the caller's password after verifying the current one
func ChangePassword(db *gorm.DB, caller access.Caller, current, next string) error {
	if len(next) < MinPasswordLength {
		return types.Validation(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	var user models.User
	if err := firstOrNotFound(db.Where("id = ?", caller.UserID), &user, "User not found"); err != nil {
		return err
	}
	if !comparePassword(user.PasswordHash, current) {
		return types.Validation("Current password is incorrect")
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return db.Model(&models.User{}).Where("id = ?", user.ID).Update("password_hash", hash).Error
}

func (a *Auth) issue(db *gorm.DB, user *models.User) (*Session, error) {
	accessToken, err := a.sign(user.ID, a.AccessSecret, a.AccessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := a.sign(user.ID, a.RefreshSecret, a.RefreshTTL)
	if err != nil {
		return nil, err
	}
	view, err := sessionView(db, user)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: accessToken, RefreshToken: refreshToken, User: view}, nil
}

func (a *Auth) sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	issued := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (a *Auth) verify(token string, secret []byte) (string, error) {
	if token == "" {
		return "", types.Unauthorized("Missing authorization token")
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || claims.Subject == "" {
		return "", types.Unauthorized("Invalid or expired token")
	}
	return claims.Subject, nil
}

func loadActiveUser(db *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	err := db.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.Unauthorized("User not found")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, types.Unauthorized("User is disabled")
	}
	return &user, nil
}

func clientIDForUser(db *gorm.DB, user *models.User) (string, error) {
	if user.Role != models.RoleClient {
		return "", nil
	}
	var ids []string
	if err := db.Model(&models.Client{}).Where("primary_user_id = ?", user.ID).Limit(1).Pluck("id", &ids).Error; err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "", nil
	}
	return ids[0], nil
}

func sessionView(db *gorm.DB, user *models.User) (UserView, error) {
	view := NewUserView(user)

	clientID, err := clientIDForUser(db, user)
	if err != nil {
		return view, err
	}
	if clientID != "" {
		view.ClientID = &clientID
	}

	if user.FirmID != nil {
		var names []string
		if err := db.Model(&models.Firm{}).Where("id = ?", *user.FirmID).Limit(1).Pluck("name", &names).Error; err != nil {
			return view, err
		}
		if len(names) > 0 {
			view.FirmName = &names[0]
		}
	}
	return view, nil
}
