package userservice

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/bloggingapp/internal/common"
)

func testUser() CreateUserRequest {
	return CreateUserRequest{
		Username: "Tester",
		Email:    "tester@example.com",
		Password: "test123",
	}
}

func setupTestEnvironment(t *testing.T) (*UserService, *sql.DB, *common.RecordingProducer, func() error) {
	db := common.TestDB("file://../../migrations", t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)
	mb := &common.RecordingProducer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := NewUserService(db, mb, cache, NewTokenManager("test-secret", time.Minute, time.Hour), logger)

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM users")
		if err != nil {
			return err
		}

		cache.Flush()
		mb.Messages = nil

		return nil
	}

	return s, db, mb, cleanup
}

func TestCreateUser(t *testing.T) {
	s, db, mb, cleanup := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		payload     CreateUserRequest
		setup       func() error
		expectedErr error
	}{
		{
			name:    "valid user",
			payload: testUser(),
		},
		{
			name:        "empty payload",
			payload:     CreateUserRequest{},
			expectedErr: common.ValidationError{Errors: map[string]string{"username": "must be provided", "password": "must be provided"}},
		},
		{
			name:    "duplicate username",
			payload: testUser(),
			setup: func() error {
				_, err := s.CreateUser(context.Background(), &CreateUserRequest{Username: "Tester", Password: "other123"})
				return err
			},
			expectedErr: ErrDuplicateUsername,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if tc.setup != nil {
				require.NoError(t, tc.setup())
			}

			u, err := s.CreateUser(ctx, &tc.payload)
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				assert.Positive(t, u.ID)
				assert.Equal(t, tc.payload.Username, u.Username)

				var hash []byte
				err = db.QueryRow("SELECT password FROM users WHERE id = $1", u.ID).Scan(&hash)
				assert.NoError(t, err)
				assert.NotEqual(t, []byte(tc.payload.Password), hash)

				assert.Equal(t, 1, mb.Count(common.UserCreatedKey))
			}

			t.Cleanup(func() {
				assert.NoError(t, cleanup())
			})
		})
	}
}

func TestLoginUser(t *testing.T) {
	s, _, _, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	req := testUser()
	_, err := s.CreateUser(context.Background(), &req)
	require.NoError(t, err)

	testCases := []struct {
		name        string
		username    string
		password    string
		expectedErr error
	}{
		{name: "valid credentials", username: "Tester", password: "test123"},
		{name: "wrong password", username: "Tester", password: "test124", expectedErr: ErrAuthenticationFailure},
		{name: "unknown user", username: "Nobody", password: "test123", expectedErr: ErrAuthenticationFailure},
		{name: "missing password", username: "Tester", expectedErr: ErrMissingCredentials},
		{name: "missing username", password: "test123", expectedErr: ErrMissingCredentials},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := s.LoginUser(context.Background(), tc.username, tc.password)
			assert.Equal(t, tc.expectedErr, err)

			if tc.expectedErr == nil {
				require.NotNil(t, token)
				assert.Equal(t, "Tester", token.User.Username)

				u, err := s.GetUserByAccessToken(context.Background(), token.Access)
				require.NoError(t, err)
				assert.Equal(t, token.User.ID, u.ID)
			}
		})
	}
}

func TestRefreshAccessToken(t *testing.T) {
	s, _, _, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	req := testUser()
	u, err := s.CreateUser(context.Background(), &req)
	require.NoError(t, err)

	token, err := s.LoginUser(context.Background(), req.Username, req.Password)
	require.NoError(t, err)

	access, err := s.RefreshAccessToken(context.Background(), token.Refresh)
	require.NoError(t, err)

	got, err := s.GetUserByAccessToken(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.RefreshAccessToken(context.Background(), token.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.RefreshAccessToken(context.Background(), "")
	assert.ErrorAs(t, err, &common.ValidationError{})

	require.NoError(t, s.DeleteUser(context.Background(), u.ID, u.ID))

	_, err = s.RefreshAccessToken(context.Background(), token.Refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.GetUserByAccessToken(context.Background(), access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateUser(t *testing.T) {
	s, _, _, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	ctx := context.Background()

	req := testUser()
	u, err := s.CreateUser(ctx, &req)
	require.NoError(t, err)

	other, err := s.CreateUser(ctx, &CreateUserRequest{Username: "User", Password: "user123"})
	require.NoError(t, err)

	_, err = s.UpdateUser(ctx, other.ID, u.ID, &UpdateUserRequest{Username: "Hijacked"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateUser(ctx, u.ID, u.ID, &UpdateUserRequest{Username: "User"})
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	updated, err := s.UpdateUser(ctx, u.ID, u.ID, &UpdateUserRequest{Username: "Renamed", FirstName: "Test", Password: "new-pass"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Username)
	assert.Equal(t, "Test", updated.FirstName)

	_, err = s.LoginUser(ctx, "Renamed", "test123")
	assert.ErrorIs(t, err, ErrAuthenticationFailure)

	_, err = s.LoginUser(ctx, "Renamed", "new-pass")
	assert.NoError(t, err)
}

func TestDeleteUser(t *testing.T) {
	s, db, _, cleanup := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	ctx := context.Background()

	req := testUser()
	u, err := s.CreateUser(ctx, &req)
	require.NoError(t, err)

	_, err = db.Exec("INSERT INTO blogs (title, content, tagline, user_id) VALUES ('t', 'c', 'g', $1)", u.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeleteUser(ctx, u.ID+1, u.ID), ErrNotFound)
	require.NoError(t, s.DeleteUser(ctx, u.ID, u.ID))
	assert.ErrorIs(t, s.DeleteUser(ctx, u.ID, u.ID), ErrNotFound)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM blogs").Scan(&count))
	assert.Equal(t, 0, count)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
