package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"resort-backend/models"
	"resort-backend/repository"
	"resort-backend/utils"
)

const tokenIssuer = "resort-backend"

// StaffClaims is the payload of a staff access token.
type StaffClaims struct {
	AdminID     uint     `json:"admin_id"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

func (c StaffClaims) Can(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

type AuthService struct {
	store  repository.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(store repository.Store, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{store: store, secret: []byte(secret), ttl: ttl, now: time.Now}
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	Admin     models.Admin `json:"admin"`
	Roles     []string     `json:"roles"`
	// Permissions is the union over every role of the account.
	Permissions []string `json:"permissions"`
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks the bcrypt hash and issues a signed HS256 token.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, validationf("username and password required")
	}
	admin, err := s.store.GetAdminByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return LoginResult{}, ErrUnauthorized
	}
	if err != nil {
		return LoginResult{}, storeErr("load admin", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		return LoginResult{}, ErrUnauthorized
	}

	roles, err := s.store.RolesForAdmin(ctx, admin.ID)
	if err != nil {
		return LoginResult{}, storeErr("load roles", err)
	}
	var roleNames, perms []string
	for _, r := range roles {
		roleNames = append(roleNames, r.Name)
		for _, p := range r.PermissionNames() {
			if !slices.Contains(perms, p) {
				perms = append(perms, p)
			}
		}
	}
	slices.Sort(perms)

	jti, err := utils.TokenID()
	if err != nil {
		return LoginResult{}, err
	}
	now := s.now()
	expires := now.Add(s.ttl)
	claims := StaffClaims{
		AdminID:     admin.ID,
		Username:    admin.Username,
		Roles:       roleNames,
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(admin.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return LoginResult{}, fmt.Errorf("sign token: %w", err)
	}
	return LoginResult{Token: token, ExpiresAt: expires, Admin: admin, Roles: roleNames, Permissions: perms}, nil
}

// ParseToken verifies signature, algorithm and expiry.
func (s *AuthService) ParseToken(raw string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
