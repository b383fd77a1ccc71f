package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"field-tech-api/internal/metrics"
	"field-tech-api/internal/model"
	"field-tech-api/internal/util"
)

const (
	bcryptCost            = 12
	BootstrapAdminName    = "admin"
	bootstrapAdminDisplay = "Administrador"
)

// dummyHash keeps unknown-user logins as slow as wrong-password logins.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	audit  AuditRecorder
	logger *slog.Logger
	now    func() time.Time
}

func NewAuthService(users UserStore, tokens TokenIssuer, audit AuditRecorder, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{users: users, tokens: tokens, audit: audit, logger: logger, now: time.Now}
}

// Login verifies a bcrypt password and issues a session token. Rows whose
// password column is not a bcrypt hash never authenticate.
func (s *AuthService) Login(ctx context.Context, actor model.Actor, username string, password string) (model.LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return model.LoginResult{}, model.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return model.LoginResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return model.LoginResult{}, fmt.Errorf("login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return model.LoginResult{}, model.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return model.LoginResult{}, fmt.Errorf("login: %w", err)
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	userID := user.ID
	actor.UserID = &userID
	actor.Username = user.Username
	actor.Role = user.Role

	event := model.ActorEvent(actor, model.ActionLogin, fmt.Sprintf("Usuário %s entrou no sistema", user.Username))
	event.EntityType = "user"
	event.EntityID = fmt.Sprint(user.ID)
	event.EntityName = user.FullName
	s.audit.Record(ctx, event)

	return model.LoginResult{Token: token, TokenType: "Bearer", ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (model.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, actor model.Actor, userID int64, patch model.ProfilePatch) (model.User, error) {
	if patch.IsEmpty() {
		return model.User{}, model.ErrNothingToUpdate
	}

	if patch.FullName != nil {
		name := util.CleanText(*patch.FullName, 150)
		if name == "" {
			return model.User{}, fmt.Errorf("%w: full_name cannot be empty", model.ErrInvalidInput)
		}
		patch.FullName = &name
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return model.User{}, fmt.Errorf("%w: invalid email", model.ErrInvalidInput)
		}
		patch.Email = &email
	}
	if patch.City != nil {
		city := util.CleanText(*patch.City, 100)
		patch.City = &city
	}

	user, err := s.users.UpdateProfile(ctx, userID, patch, s.now().UTC())
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.User{}, err
		}
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}

	event := model.ActorEvent(actor, model.ActionProfileUpdated, "Perfil atualizado")
	event.EntityType = "user"
	event.EntityID = fmt.Sprint(userID)
	event.EntityName = user.FullName
	s.audit.Record(ctx, event)

	return user, nil
}

// EnsureBootstrapAdmin seeds an "admin" account when the users table is
// empty and a bootstrap password is configured. It is a no-op otherwise.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, password string) error {
	if strings.TrimSpace(password) == "" {
		return nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	now := s.now().UTC()
	id, err := s.users.Create(ctx, model.User{
		Username:     BootstrapAdminName,
		PasswordHash: string(hash),
		FullName:     bootstrapAdminDisplay,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}

	s.logger.Warn("bootstrap admin created; change its password", "user_id", id, "username", BootstrapAdminName)
	return nil
}
