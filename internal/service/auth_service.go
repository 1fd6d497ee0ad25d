package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/haiminhwork/task_management_sample/internal/auth"
	"github.com/haiminhwork/task_management_sample/internal/domain"
	"github.com/haiminhwork/task_management_sample/internal/logger"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type ProfilePatch struct {
	FirstName *string
	LastName  *string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	UpdateProfile(ctx context.Context, actor *domain.User, patch ProfilePatch) (*domain.User, error)
	ChangePassword(ctx context.Context, actor *domain.User, current, next string) error
}

type authService struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users domain.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	var fields []string
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !emailPattern.MatchString(email) {
		fields = append(fields, "invalid email address")
	}
	if len(input.Password) < auth.MinPasswordLen {
		fields = append(fields, "password must be at least 8 characters")
	}
	if len(fields) > 0 {
		return nil, "", &domain.ValidationError{Fields: fields}
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	// The first account on a fresh install becomes the admin; everyone
	// after that registers as a member.
	role := domain.RoleMember
	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, "", err
	}
	if count == 0 {
		role = domain.RoleAdmin
	}

	user := domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         role,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(&user)
	if err != nil {
		return nil, "", err
	}
	logger.InfoLog(ctx, "user %d registered (%s)", user.ID, user.Role)
	return &user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return nil, "", &domain.AuthError{Reason: "invalid email or password"}
		}
		return nil, "", err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", &domain.AuthError{Reason: "invalid email or password"}
	}
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *authService) UpdateProfile(ctx context.Context, actor *domain.User, patch ProfilePatch) (*domain.User, error) {
	if patch.FirstName != nil {
		actor.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		actor.LastName = strings.TrimSpace(*patch.LastName)
	}
	if err := s.users.Update(ctx, actor); err != nil {
		return nil, err
	}
	return actor, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor *domain.User, current, next string) error {
	if !auth.CheckPassword(actor.PasswordHash, current) {
		return &domain.ValidationError{Fields: []string{"current password is incorrect"}}
	}
	if len(next) < auth.MinPasswordLen {
		return &domain.ValidationError{Fields: []string{"password must be at least 8 characters"}}
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	actor.PasswordHash = hash
	return s.users.Update(ctx, actor)
}
