package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func TestIssueVerify(t *testing.T) {
	tok, err := Issue(secret, "curator", time.Hour)
	require.NoError(t, err)

	claims, err := Verify(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "curator", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestVerify_Rejects(t *testing.T) {
	good, err := Issue(secret, "curator", time.Hour)
	require.NoError(t, err)

	_, err = Verify("another-secret", good)
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)

	expired, err := Issue(secret, "curator", -time.Minute)
	require.NoError(t, err)
	_, err = Verify(secret, expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = Verify(secret, "not.a.token")
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)

	_, err = Verify(secret, "")
	assert.Error(t, err)

	viewer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Role: "viewer"}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = Verify(secret, viewer)
	assert.ErrorIs(t, err, ErrForbidden)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Role: RoleAdmin}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = Verify(secret, none)
	assert.Error(t, err)
}

func TestIssue_EmptySecret(t *testing.T) {
	_, err := Issue("", "x", time.Hour)
	assert.Error(t, err)
}

func TestSubjectFromContext(t *testing.T) {
	assert.Empty(t, Subject(context.Background()))
	ctx := WithClaims(context.Background(), &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "curator"}})
	assert.Equal(t, "curator", Subject(ctx))
}
