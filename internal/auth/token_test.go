package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/transvia/fleet-office/internal/model"
)

func TestIssueAndParse(t *testing.T) {
	user := model.User{ID: uuid.New(), Nome: "Maria Souza", Email: "maria@transvia.com.br", AdminGeral: true}

	token, expiresAt, err := NewIssuer("secret", time.Hour).Issue(user)
	require.NoError(t, err)
	require.True(t, expiresAt.After(time.Now()))

	sess, err := NewParser("secret").Parse(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, sess.UserID())
	require.Equal(t, "Maria Souza", sess.UserName())
	require.True(t, sess.IsAdminGeral())
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewIssuer("secret", time.Hour).Issue(model.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = NewParser("other").Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewIssuer("secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := issuer.Issue(model.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = NewParser("secret").Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
