package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/transvia/fleet-office/internal/model"
	"github.com/transvia/fleet-office/internal/oplog"
)

const minPasswordLength = 8

var fieldRules = validator.New()

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	TouchLastAccess(ctx context.Context, id uuid.UUID, at time.Time) error
}

type TokenIssuer interface {
	Issue(user model.User) (string, time.Time, error)
}

type UserService struct {
	users       UserRepository
	permissions PermissionRepository
	tokens      TokenIssuer
	ops         operationRecorder
	log         zerolog.Logger
	now         func() time.Time
}

func NewUserService(users UserRepository, permissions PermissionRepository, tokens TokenIssuer, ops oplog.Store, log zerolog.Logger) *UserService {
	return &UserService{
		users:       users,
		permissions: permissions,
		tokens:      tokens,
		ops:         operationRecorder{store: ops, log: log, now: time.Now},
		log:         log,
		now:         time.Now,
	}
}

type CreateUserInput struct {
	Nome       string
	Email      string
	Senha      string
	Status     model.UserStatus
	AdminGeral bool
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	nome := strings.TrimSpace(input.Nome)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if nome == "" {
		return nil, fieldError("nome", "informe o nome")
	}
	if err := fieldRules.Var(email, "required,email"); err != nil {
		return nil, fieldError("email", "e-mail inválido")
	}
	if len(input.Senha) < minPasswordLength {
		return nil, fieldError("senha", "a senha deve ter pelo menos 8 caracteres")
	}
	status := input.Status
	if status == "" {
		status = model.UserStatusActive
	}
	if !status.Valid() {
		return nil, fieldError("status", "status inválido")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: e-mail já cadastrado", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:         uuid.New(),
		Nome:       nome,
		Email:      email,
		SenhaHash:  string(hash),
		Status:     status,
		AdminGeral: input.AdminGeral,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.ops.record(ctx, model.ModuleUsers, "criar", false)
		return nil, err
	}
	s.ops.record(ctx, model.ModuleUsers, "criar", true)
	return user, nil
}

type UpdateUserInput struct {
	ID         uuid.UUID
	Nome       *string
	Senha      *string
	Status     *model.UserStatus
	AdminGeral *bool
}

func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*model.User, error) {
	user, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Nome != nil {
		nome := strings.TrimSpace(*input.Nome)
		if nome == "" {
			return nil, fieldError("nome", "informe o nome")
		}
		user.Nome = nome
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, fieldError("status", "status inválido")
		}
		user.Status = *input.Status
	}
	if input.AdminGeral != nil {
		user.AdminGeral = *input.AdminGeral
	}
	if input.Senha != nil {
		if len(*input.Senha) < minPasswordLength {
			return nil, fieldError("senha", "a senha deve ter pelo menos 8 caracteres")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Senha), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.SenhaHash = string(hash)
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.ops.record(ctx, model.ModuleUsers, "editar", false)
		return nil, err
	}
	s.ops.record(ctx, model.ModuleUsers, "editar", true)
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: usuário %s", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, search string) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	term := normalizeSearch(search)
	result := make([]model.User, 0, len(users))
	for _, u := range users {
		if matchesSearch(term, u.Nome, u.Email, string(u.Status)) {
			result = append(result, u)
		}
	}
	return result, nil
}

type GrantInput struct {
	Module string
	Action model.Action
}

// SetGrants replaces every grant of the user.
func (s *UserService) SetGrants(ctx context.Context, userID uuid.UUID, input []GrantInput) ([]model.PermissionGrant, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(input))
	grants := make([]model.PermissionGrant, 0, len(input))
	for i, g := range input {
		module := strings.TrimSpace(g.Module)
		if module == "" {
			return nil, fieldError(fmt.Sprintf("permissoes[%d].modulo", i), "informe o módulo")
		}
		if !g.Action.Valid() {
			return nil, fieldError(fmt.Sprintf("permissoes[%d].acao", i), "ação inválida")
		}
		key := module + "/" + string(g.Action)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		grants = append(grants, model.PermissionGrant{UsuarioID: userID, Modulo: module, Acao: g.Action})
	}

	if err := s.permissions.ReplaceGrants(ctx, userID, grants); err != nil {
		s.ops.record(ctx, model.ModuleUsers, "editar permissoes", false)
		return nil, err
	}
	s.ops.record(ctx, model.ModuleUsers, "editar permissoes", true)
	return grants, nil
}

func (s *UserService) Grants(ctx context.Context, userID uuid.UUID) ([]model.PermissionGrant, error) {
	return s.permissions.ListGrants(ctx, userID)
}

type LoginResult struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      model.User `json:"usuario"`
}

// Login checks the password and refuses inactive or blocked users.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(password)) != nil {
		s.ops.record(ctx, model.ModuleUsers, "login", false)
		return nil, ErrInvalidCredentials
	}
	if user.Status != model.UserStatusActive {
		s.ops.record(ctx, model.ModuleUsers, "login", false)
		return nil, fmt.Errorf("%w: usuário %s", ErrPermissionDenied, user.Status)
	}

	token, expiresAt, err := s.tokens.Issue(*user)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.users.TouchLastAccess(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("usuario_id", user.ID.String()).Msg("last access update failed")
	} else {
		user.UltimoAcesso = &now
	}
	s.ops.record(ctx, model.ModuleUsers, "login", true)

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}
