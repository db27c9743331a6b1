package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr), "expected *ValidationError, got %v", err)
	return vErr
}

func TestValidateLoginAcceptsStrongPassword(t *testing.T) {
	assert.NoError(t, ValidateLogin("admin@lendsqr.com", "Abcdef1!"))
}

func TestValidateLoginMissingFields(t *testing.T) {
	for _, tc := range []struct{ email, password string }{
		{"", "Abcdef1!"},
		{"admin@lendsqr.com", ""},
		{"", ""},
		{"not-an-email", ""},
	} {
		vErr := validationError(t, ValidateLogin(tc.email, tc.password))
		assert.Equal(t, MsgFillAllFields, vErr.Message)
		assert.Equal(t, []string{MsgFillAllFields}, vErr.Violations)
	}
}

func TestValidateLoginEmailShape(t *testing.T) {
	for _, email := range []string{"admin", "admin@lendsqr", "ad min@lendsqr.com", "@lendsqr.com", "a@b@c.com"} {
		vErr := validationError(t, ValidateLogin(email, "abc"))
		assert.Equal(t, MsgInvalidEmail, vErr.Message, email)
	}
}

func TestValidateLoginListsEveryMissingClass(t *testing.T) {
	vErr := validationError(t, ValidateLogin("admin@lendsqr.com", "abcdefgh"))

	assert.Equal(t, []string{MsgPasswordUppercase, MsgPasswordNumber, MsgPasswordSymbol}, vErr.Violations)
	assert.Equal(t,
		"Password requirements: Password must contain at least one uppercase letter, "+
			"Password must contain at least one number, "+
			"Password must contain at least one special character",
		vErr.Message)
}

func TestPasswordViolations(t *testing.T) {
	tests := []struct {
		password string
		want     []string
	}{
		{"Abcdef1!", nil},
		{"Ab1!", []string{MsgPasswordLength}},
		{"ABCDEFG1!", []string{MsgPasswordLowercase}},
		{"Abcdefgh\\", []string{MsgPasswordNumber}},
		{"Abcdefg1 ", []string{MsgPasswordSymbol}},
		{"", []string{MsgPasswordLength, MsgPasswordUppercase, MsgPasswordLowercase, MsgPasswordNumber, MsgPasswordSymbol}},
		{"Ünïcödé1?", []string{MsgPasswordUppercase}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, PasswordViolations(tc.password), tc.password)
	}
}

func TestDemoAuthenticator(t *testing.T) {
	assert.NoError(t, NewDemoAuthenticator(0).Authenticate(context.Background(), "a@b.co", "x"))
	assert.NoError(t, NewDemoAuthenticator(time.Millisecond).Authenticate(context.Background(), "a@b.co", "x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewDemoAuthenticator(time.Hour).Authenticate(ctx, "a@b.co", "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "lendsqr-admin", time.Hour)
	in := Session{ID: "session-1", Email: "admin@lendsqr.com"}

	token, err := tm.Generate(in)
	require.NoError(t, err)

	out, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.True(t, out.SignedIn())
}

func TestTokenRejectsForeignTokens(t *testing.T) {
	token, err := NewTokenManager("other", "lendsqr-admin", time.Hour).Generate(NewSession())
	require.NoError(t, err)
	_, err = NewTokenManager("secret", "lendsqr-admin", time.Hour).Parse(token)
	assert.Error(t, err)

	token, err = NewTokenManager("secret", "someone-else", time.Hour).Generate(NewSession())
	require.NoError(t, err)
	_, err = NewTokenManager("secret", "lendsqr-admin", time.Hour).Parse(token)
	assert.Error(t, err)

	token, err = NewTokenManager("secret", "lendsqr-admin", -time.Minute).Generate(NewSession())
	require.NoError(t, err)
	_, err = NewTokenManager("secret", "lendsqr-admin", time.Hour).Parse(token)
	assert.Error(t, err)

	_, err = NewTokenManager("secret", "lendsqr-admin", time.Hour).Parse("garbage")
	assert.Error(t, err)
}

func TestWriteCookie(t *testing.T) {
	tm := NewTokenManager("secret", "lendsqr-admin", time.Hour)
	rec := httptest.NewRecorder()

	token, err := tm.WriteCookie(rec, Session{ID: "s"})
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestSessionContext(t *testing.T) {
	_, ok := SessionFrom(context.Background())
	assert.False(t, ok)

	s := NewSession()
	assert.NotEmpty(t, s.ID)
	assert.False(t, s.SignedIn())

	got, ok := SessionFrom(WithSession(context.Background(), s))
	require.True(t, ok)
	assert.Equal(t, s, got)
}
