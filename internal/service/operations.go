package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/transvia/fleet-office/internal/oplog"
)

const (
	minReasonLength = 5
	maxReasonLength = 500
)

// operationRecorder appends to the operation log. A failing store never fails the operation.
type operationRecorder struct {
	store oplog.Store
	log   zerolog.Logger
	now   func() time.Time
}

func (r operationRecorder) record(ctx context.Context, module, action string, success bool) {
	if r.store == nil {
		return
	}
	entry := oplog.Entry{Module: module, Action: action, Timestamp: r.now(), Success: success}
	if err := r.store.Record(ctx, entry); err != nil {
		r.log.Warn().Err(err).Str("module", module).Str("action", action).Msg("operation log write failed")
	}
}

// validateReason trims the reason and enforces the 5-500 character range.
func validateReason(field, reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	length := utf8.RuneCountInString(reason)
	if length == 0 {
		return "", fieldError(field, "o motivo é obrigatório")
	}
	if length < minReasonLength {
		return "", fieldError(field, "o motivo deve ter pelo menos 5 caracteres")
	}
	if length > maxReasonLength {
		return "", fieldError(field, "o motivo deve ter no máximo 500 caracteres")
	}
	return reason, nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func matchesSearch(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func normalizeSearch(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
