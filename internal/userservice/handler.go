package userservice

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/sushihentaime/bloggingapp/internal/common"
)

var (
	ErrAuthenticationFailure = errors.New("no active account found with the given credentials")
	ErrMissingCredentials    = errors.New("username or(and) password not provided")
)

func NewUserService(db *sql.DB, mb common.MessageProducer, c *common.Cache, t *TokenManager, logger *slog.Logger) *UserService {
	return &UserService{
		m:      newUserModel(db),
		mb:     mb,
		c:      c,
		t:      t,
		logger: logger,
	}
}

// CreateUser creates a new user account and publishes a user.created event.
func (s *UserService) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	v := common.NewValidator()
	validateCreateUser(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	err := u.Password.set(req.Password)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	event := common.UserCreatedEvent{UserID: u.ID, Username: u.Username, Email: u.Email}
	if err := common.PublishEvent(ctx, s.mb, common.UserCreatedKey, common.UserExchange, event); err != nil {
		s.logger.Error("could not publish user created event", slog.Int64("user_id", u.ID), slog.String("error", err.Error()))
	}

	return &u, nil
}

// LoginUser checks the credentials and returns a refresh token, an access token and the user.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*AuthToken, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			compareDummy(password)
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.compare(password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthenticationFailure
	}

	token, err := s.t.NewTokenPair(user.ID)
	if err != nil {
		return nil, err
	}
	token.User = user

	return token, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access token.
func (s *UserService) RefreshAccessToken(ctx context.Context, refresh string) (string, error) {
	if refresh == "" {
		v := common.NewValidator()
		v.AddError("refresh", "must be provided")
		return "", v.ValidationError()
	}

	id, err := s.t.ParseRefreshToken(refresh)
	if err != nil {
		return "", err
	}

	if _, err := s.getUser(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	return s.t.NewAccessToken(id)
}

// GetUserByAccessToken returns the owner of a valid access token.
func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	id, err := s.t.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}

	u, err := s.getUser(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return u, nil
}

// getUser reads through the cache.
func (s *UserService) getUser(ctx context.Context, id int64) (*User, error) {
	key := common.CacheKeyUser(id)
	if cached, ok := s.c.Get(key); ok {
		if u, ok := cached.(User); ok {
			return &u, nil
		}
	}

	u, err := s.m.getUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.c.Set(key, *u)
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*User, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, ErrNotFound
	}

	return s.getUser(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]User, error) {
	return s.m.listUsers(ctx)
}

// UpdateUser replaces the caller's own account fields. Any other account reads as not found.
func (s *UserService) UpdateUser(ctx context.Context, callerID, id int64, req *UpdateUserRequest) (*User, error) {
	if callerID != id {
		return nil, ErrNotFound
	}

	v := common.NewValidator()
	validateUpdateUser(v, req)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u, err := s.m.getUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Username = req.Username
	u.Email = req.Email
	u.FirstName = req.FirstName
	u.LastName = req.LastName

	if req.Password != "" {
		if err := u.Password.set(req.Password); err != nil {
			return nil, err
		}
	}

	if err := s.m.updateUser(ctx, u); err != nil {
		return nil, err
	}

	s.c.Delete(common.CacheKeyUser(id))
	return u, nil
}

// DeleteUser removes the caller's own account and everything it owns.
func (s *UserService) DeleteUser(ctx context.Context, callerID, id int64) error {
	if callerID != id {
		return ErrNotFound
	}

	if err := s.m.deleteUser(ctx, id); err != nil {
		return err
	}

	s.c.Delete(common.CacheKeyUser(id))
	return nil
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
