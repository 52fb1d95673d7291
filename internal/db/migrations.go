package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS usuarios (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		nome VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		senha_hash TEXT NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'ativo',
		admin_geral BOOLEAN NOT NULL DEFAULT FALSE,
		ultimo_acesso TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_usuarios_email ON usuarios (LOWER(email));`,
	`CREATE TABLE IF NOT EXISTS permissoes (
		id BIGSERIAL PRIMARY KEY,
		usuario_id UUID NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE,
		modulo VARCHAR(64) NOT NULL,
		acao VARCHAR(16) NOT NULL
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_permissoes_grant ON permissoes (usuario_id, modulo, acao);`,
	`CREATE TABLE IF NOT EXISTS veiculos (
		id BIGSERIAL PRIMARY KEY,
		placa VARCHAR(8) NOT NULL,
		modelo VARCHAR(128) NOT NULL,
		marca VARCHAR(128) NOT NULL,
		ano INT NOT NULL,
		renavam VARCHAR(11),
		proprietario_nome VARCHAR(255) NOT NULL,
		proprietario_documento VARCHAR(14) NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'Ativo',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_veiculos_placa ON veiculos (placa);`,
	`CREATE TABLE IF NOT EXISTS contratos (
		id BIGSERIAL PRIMARY KEY,
		origem VARCHAR(255) NOT NULL,
		destino VARCHAR(255) NOT NULL,
		cliente VARCHAR(255) NOT NULL,
		veiculo_id BIGINT REFERENCES veiculos(id),
		motorista_id BIGINT,
		proprietario_id BIGINT,
		status VARCHAR(32) NOT NULL DEFAULT 'Pendente',
		valor_frete NUMERIC(15,2) NOT NULL DEFAULT 0,
		observacoes TEXT,
		motivo_cancelamento TEXT,
		observacao_cancelamento TEXT,
		data_cancelamento TIMESTAMPTZ,
		motivo_rejeicao TEXT,
		data_rejeicao TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_contratos_status ON contratos (status);`,
	`CREATE TABLE IF NOT EXISTS contrato_status_historico (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		contrato_id BIGINT NOT NULL REFERENCES contratos(id) ON DELETE CASCADE,
		status_de VARCHAR(32) NOT NULL,
		status_para VARCHAR(32) NOT NULL,
		motivo TEXT NOT NULL,
		responsavel VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS manifestos (
		id BIGSERIAL PRIMARY KEY,
		contrato_id BIGINT NOT NULL REFERENCES contratos(id) ON DELETE CASCADE,
		numero VARCHAR(64) NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'Ativo',
		motivo_cancelamento TEXT,
		observacao_cancelamento TEXT,
		data_cancelamento TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS ctes (
		id BIGSERIAL PRIMARY KEY,
		contrato_id BIGINT NOT NULL REFERENCES contratos(id) ON DELETE CASCADE,
		numero VARCHAR(64) NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'Ativo',
		motivo_cancelamento TEXT,
		observacao_cancelamento TEXT,
		data_cancelamento TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS notas_fiscais (
		id BIGSERIAL PRIMARY KEY,
		contrato_id BIGINT NOT NULL REFERENCES contratos(id) ON DELETE CASCADE,
		numero VARCHAR(64) NOT NULL,
		valor NUMERIC(15,2) NOT NULL DEFAULT 0,
		status VARCHAR(32) NOT NULL DEFAULT 'Ativo',
		motivo_cancelamento TEXT,
		observacao_cancelamento TEXT,
		data_cancelamento TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_manifestos_contrato_id ON manifestos (contrato_id);`,
	`CREATE INDEX IF NOT EXISTS idx_ctes_contrato_id ON ctes (contrato_id);`,
	`CREATE INDEX IF NOT EXISTS idx_notas_fiscais_contrato_id ON notas_fiscais (contrato_id);`,
	`CREATE TABLE IF NOT EXISTS abastecimentos (
		id BIGSERIAL PRIMARY KEY,
		veiculo_id BIGINT NOT NULL REFERENCES veiculos(id),
		data DATE NOT NULL,
		litros NUMERIC(12,3) NOT NULL,
		valor_total NUMERIC(15,2) NOT NULL,
		km BIGINT NOT NULL DEFAULT 0,
		posto VARCHAR(255) NOT NULL DEFAULT '',
		status VARCHAR(32) NOT NULL DEFAULT 'Ativo',
		motivo_cancelamento TEXT,
		observacao_cancelamento TEXT,
		data_cancelamento TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS manutencoes (
		id BIGSERIAL PRIMARY KEY,
		veiculo_id BIGINT NOT NULL REFERENCES veiculos(id),
		data DATE NOT NULL,
		tipo VARCHAR(16) NOT NULL,
		descricao TEXT NOT NULL,
		valor NUMERIC(15,2) NOT NULL DEFAULT 0,
		km BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS canhotos (
		id BIGSERIAL PRIMARY KEY,
		contrato_id BIGINT NOT NULL REFERENCES contratos(id),
		responsavel VARCHAR(255),
		data_entrega_mercadoria DATE,
		data_recebimento DATE,
		data_recebimento_controladoria DATE,
		saldo NUMERIC(15,2) NOT NULL DEFAULT 0,
		status VARCHAR(32) NOT NULL DEFAULT 'Pendente',
		observacoes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_canhotos_contrato_id ON canhotos (contrato_id);`,
	`CREATE TABLE IF NOT EXISTS saldos_pagar (
		id BIGSERIAL PRIMARY KEY,
		contrato_id BIGINT NOT NULL REFERENCES contratos(id),
		valor NUMERIC(15,2) NOT NULL DEFAULT 0,
		status VARCHAR(32) NOT NULL DEFAULT 'Pendente',
		liberado_em TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_saldos_pagar_contrato_id ON saldos_pagar (contrato_id);`,
	// (tipo_documento, numero_documento) is not unique; callers check for an existing row first.
	`CREATE TABLE IF NOT EXISTS cancelamentos (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		tipo_documento VARCHAR(32) NOT NULL,
		numero_documento VARCHAR(64) NOT NULL,
		motivo TEXT NOT NULL,
		observacoes TEXT,
		responsavel VARCHAR(255) NOT NULL,
		data_cancelamento TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_cancelamentos_documento ON cancelamentos (tipo_documento, numero_documento);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
