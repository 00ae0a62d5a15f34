package account_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JesVite28/products-front/internal/alerts"
	"github.com/JesVite28/products-front/internal/domain/models"
	"github.com/JesVite28/products-front/internal/service/account"
	"github.com/JesVite28/products-front/internal/session"
	"github.com/JesVite28/products-front/pkg/clients/accounts"
)

type fakeAuth struct {
	loginFn    func(ctx context.Context, email, password string) (*accounts.Credentials, error)
	registerFn func(ctx context.Context, name, email, password string) (*accounts.Credentials, error)

	loginCalls    int
	registerCalls int
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) (*accounts.Credentials, error) {
	f.loginCalls++
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return nil, accounts.ErrRequestFailed
}

func (f *fakeAuth) Register(ctx context.Context, name, email, password string) (*accounts.Credentials, error) {
	f.registerCalls++
	if f.registerFn != nil {
		return f.registerFn(ctx, name, email, password)
	}
	return nil, accounts.ErrRequestFailed
}

func (f *fakeAuth) ListUsers(context.Context) ([]models.User, error) { return nil, nil }

func (f *fakeAuth) UpdateUser(context.Context, string, accounts.UserUpdate) (*models.User, error) {
	return nil, nil
}

func (f *fakeAuth) DeleteUser(context.Context, string) error { return nil }

func grantAll(email string) func(context.Context, string, string) (*accounts.Credentials, error) {
	return func(_ context.Context, gotEmail, _ string) (*accounts.Credentials, error) {
		return &accounts.Credentials{
			Token: "tok-abc",
			User:  &models.User{ID: "u1", Email: gotEmail, Roles: models.RoleList{models.RoleAdmin}},
		}, nil
	}
}

func TestLoginSuccessPersistsCredential(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_token")
	sess := session.New(path, nil)

	fake := &fakeAuth{loginFn: grantAll("ana@shop.test")}
	svc := account.NewService(fake, sess, alerts.NewStore(), nil)

	user, err := svc.Login(context.Background(), "ana@shop.test", "secret")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, account.StateAuthenticated, svc.State())
	assert.Empty(t, svc.LastError())
	assert.Equal(t, "ana@shop.test", svc.CurrentUser().Email)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", string(data))

	token, ok := sess.CurrentCredential()
	require.True(t, ok)
	assert.Equal(t, "tok-abc", token)
}

func TestLoginFailureReturnsToAnonymousWithError(t *testing.T) {
	sess := session.New(filepath.Join(t.TempDir(), "app_token"), nil)
	fake := &fakeAuth{}
	svc := account.NewService(fake, sess, alerts.NewStore(), nil)

	_, err := svc.Login(context.Background(), "ana@shop.test", "wrong")
	require.Error(t, err)

	assert.Equal(t, account.StateAnonymous, svc.State())
	assert.NotEmpty(t, svc.LastError())
	assert.Nil(t, svc.CurrentUser())
	assert.False(t, sess.Authenticated())
}

func TestLoginRejectsBlankFieldsWithoutRequest(t *testing.T) {
	sess := session.New(filepath.Join(t.TempDir(), "app_token"), nil)
	fake := &fakeAuth{}
	svc := account.NewService(fake, sess, alerts.NewStore(), nil)

	_, err := svc.Login(context.Background(), " ", "secret")
	assert.ErrorIs(t, err, account.ErrMissingCredentials)
	assert.Equal(t, 0, fake.loginCalls)
	assert.Equal(t, account.ErrMissingCredentials.Error(), svc.LastError())
}

func TestRegisterSignsIn(t *testing.T) {
	sess := session.New(filepath.Join(t.TempDir(), "app_token"), nil)
	fake := &fakeAuth{
		registerFn: func(_ context.Context, name, email, _ string) (*accounts.Credentials, error) {
			return &accounts.Credentials{
				Token: "tok-new",
				User:  &models.User{ID: "u2", Name: name, Email: email},
			}, nil
		},
	}
	svc := account.NewService(fake, sess, alerts.NewStore(), nil)

	user, err := svc.Register(context.Background(), "Ana", "ana@shop.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, account.StateAuthenticated, svc.State())
	assert.True(t, sess.Authenticated())
}

func TestLogoutClearsSessionAndRunsHooks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_token")
	sess := session.New(path, nil)

	fake := &fakeAuth{loginFn: grantAll("ana@shop.test")}
	svc := account.NewService(fake, sess, alerts.NewStore(), nil)

	hookRuns := 0
	svc.OnLogout(func() { hookRuns++ })
	svc.OnLogout(func() { hookRuns++ })

	_, err := svc.Login(context.Background(), "ana@shop.test", "secret")
	require.NoError(t, err)

	svc.Logout()

	assert.Equal(t, 2, hookRuns)
	assert.Equal(t, account.StateAnonymous, svc.State())
	assert.Nil(t, svc.CurrentUser())

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)

	// A fresh process would come up anonymous as well.
	assert.False(t, session.New(path, nil).Authenticated())
}
