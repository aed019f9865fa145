package service

import (
	"clever_backend/internal/config"
	"clever_backend/internal/model"
	"clever_backend/internal/util"
	"clever_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name     string         `json:"name" binding:"required,max=150"`
	Email    string         `json:"email" binding:"required,email,max=100"`
	Password string         `json:"password" binding:"required,min=6,max=72"`
	Role     model.UserRole `json:"role" binding:"required,oneof=student teacher"`
	GroupID  *uint          `json:"group_id"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type AuthService struct {
	Users     UserStore
	Groups    GroupStore
	Blocklist TokenBlocklist
	Cfg       *config.Config
}

func NewAuthService(users UserStore, groups GroupStore, blocklist TokenBlocklist, cfg *config.Config) *AuthService {
	return &AuthService{
		Users:     users,
		Groups:    groups,
		Blocklist: blocklist,
		Cfg:       cfg,
	}
}

// Register creates a user. Students must join an existing group; teachers
// never belong to one.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	_, err := s.Users.FindByEmail(ctx, email)
	if err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.User{
		Name:  strings.TrimSpace(req.Name),
		Email: email,
		Role:  req.Role,
	}

	switch req.Role {
	case model.Student:
		if req.GroupID == nil {
			return nil, fmt.Errorf("%w: students must choose a group", util.ErrInvalidInput)
		}
		if _, err := s.Groups.FindByID(ctx, *req.GroupID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrGroupNotFound
			}
			return nil, err
		}
		user.GroupID = req.GroupID
	case model.Teacher:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", util.ErrInvalidInput, req.Role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.Password = string(hashedPassword)

	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}

	logger.Log.Info("user registered",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, User: user}, nil
}

// Logout revokes the token behind claims for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.Blocklist.Block(ctx, claims.ID, ttl)
}

func (s *AuthService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.Blocklist.IsBlocked(ctx, tokenID)
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
