package model

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "ativo"
	UserStatusInactive UserStatus = "inativo"
	UserStatusBlocked  UserStatus = "bloqueado"
)

func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusInactive || s == UserStatusBlocked
}

type User struct {
	ID           uuid.UUID  `gorm:"column:id;primaryKey" json:"id"`
	Nome         string     `gorm:"column:nome" json:"nome"`
	Email        string     `gorm:"column:email" json:"email"`
	SenhaHash    string     `gorm:"column:senha_hash" json:"-"`
	Status       UserStatus `gorm:"column:status" json:"status"`
	AdminGeral   bool       `gorm:"column:admin_geral" json:"admin_geral"`
	UltimoAcesso *time.Time `gorm:"column:ultimo_acesso" json:"ultimo_acesso,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "usuarios" }

type Action string

const (
	ActionView   Action = "visualizar"
	ActionEdit   Action = "editar"
	ActionDelete Action = "excluir"
	ActionCreate Action = "criar"
)

var Actions = []Action{ActionView, ActionEdit, ActionDelete, ActionCreate}

func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionEdit, ActionDelete, ActionCreate:
		return true
	default:
		return false
	}
}

// Module names used by permission grants.
const (
	ModuleContracts     = "contratos"
	ModuleCancellations = "cancelamentos"
	ModuleReceipts      = "canhotos"
	ModuleVehicles      = "veiculos"
	ModuleFueling       = "abastecimentos"
	ModuleMaintenance   = "manutencoes"
	ModuleUsers         = "usuarios"
	ModuleLogs          = "logs"
)

type PermissionGrant struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	UsuarioID uuid.UUID `gorm:"column:usuario_id" json:"usuario_id"`
	Modulo    string    `gorm:"column:modulo" json:"modulo"`
	Acao      Action    `gorm:"column:acao" json:"acao"`
}

func (PermissionGrant) TableName() string { return "permissoes" }

// ModulePermissions is the resolved set of actions a user holds on one module.
type ModulePermissions struct {
	Module string `json:"modulo"`
	View   bool   `json:"visualizar"`
	Edit   bool   `json:"editar"`
	Delete bool   `json:"excluir"`
	Create bool   `json:"criar"`
}

func (p ModulePermissions) Allows(action Action) bool {
	switch action {
	case ActionView:
		return p.View
	case ActionEdit:
		return p.Edit
	case ActionDelete:
		return p.Delete
	case ActionCreate:
		return p.Create
	default:
		return false
	}
}
