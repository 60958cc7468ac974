package userservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/bloggingapp/internal/common"
)

type tokenType string

const (
	tokenTypeAccess  tokenType = "access"
	tokenTypeRefresh tokenType = "refresh"

	DefaultAccessTokenTime  time.Duration = 5 * time.Minute
	DefaultRefreshTokenTime time.Duration = 24 * time.Hour
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m      *DBModel
	mb     common.MessageProducer
	c      *common.Cache
	t      *TokenManager
	logger *slog.Logger
}

type DBModel struct {
	db *sql.DB
}

// User is the public representation; the password never leaves the service.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"-"`
	Version   int       `json:"-"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// AuthToken is the login response body.
type AuthToken struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
	User    *User  `json:"user,omitempty"`
}

type CreateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// UpdateUserRequest replaces every public field. An empty Password keeps the current one.
type UpdateUserRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}
