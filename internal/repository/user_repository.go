package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/transvia/fleet-office/internal/model"
)

const userColumns = `
	id,
	nome,
	email,
	senha_hash,
	status,
	admin_geral,
	ultimo_acesso,
	created_at,
	updated_at`

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Raw(`
		INSERT INTO usuarios (id, nome, email, senha_hash, status, admin_geral)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		user.ID,
		user.Nome,
		user.Email,
		user.SenhaHash,
		user.Status,
		user.AdminGeral,
	).Scan(user).Error
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE usuarios
		SET
			nome = ?,
			senha_hash = ?,
			status = ?,
			admin_geral = ?,
			updated_at = NOW()
		WHERE id = ?
	`, user.Nome, user.SenhaHash, user.Status, user.AdminGeral, user.ID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Raw(`
		SELECT ` + userColumns + `
		FROM usuarios
		ORDER BY nome ASC
	`).Scan(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) TouchLastAccess(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE usuarios SET ultimo_acesso = ? WHERE id = ?
	`, at, id).Error
}

func (r *UserRepository) findOne(ctx context.Context, condition string, arg interface{}) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+userColumns+`
		FROM usuarios
		WHERE `+condition+`
		LIMIT 1
	`, arg).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) ListGrants(ctx context.Context, userID uuid.UUID) ([]model.PermissionGrant, error) {
	var grants []model.PermissionGrant
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, usuario_id, modulo, acao
		FROM permissoes
		WHERE usuario_id = ?
		ORDER BY modulo, acao
	`, userID).Scan(&grants).Error
	if err != nil {
		return nil, err
	}
	return grants, nil
}

func (r *PermissionRepository) ReplaceGrants(ctx context.Context, userID uuid.UUID, grants []model.PermissionGrant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM permissoes WHERE usuario_id = ?`, userID).Error; err != nil {
			return err
		}
		for _, grant := range grants {
			if err := tx.Exec(`
				INSERT INTO permissoes (usuario_id, modulo, acao)
				VALUES (?, ?, ?)
			`, userID, grant.Modulo, grant.Acao).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
