package blogservice

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sushihentaime/bloggingapp/internal/common"
)

type Blog struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	// Content is stored in Markdown format.
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Author    int64     `json:"author"`
	Tagline   string    `json:"tagline"`
	NumLikes  int       `json:"num_likes"`
	IsLiked   bool      `json:"is_liked"`
}

type Comment struct {
	ID        int64     `json:"id"`
	Author    int64     `json:"author"`
	Blog      int64     `json:"blog"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// blogReadOnly accepts the server-computed keys of a Blog so a client can send
// back what it fetched. The values are discarded.
type blogReadOnly struct {
	ID        json.RawMessage `json:"id"`
	Author    json.RawMessage `json:"author"`
	CreatedAt json.RawMessage `json:"created_at"`
	NumLikes  json.RawMessage `json:"num_likes"`
	IsLiked   json.RawMessage `json:"is_liked"`
}

type CreateBlogRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tagline string `json:"tagline"`

	blogReadOnly
}

// UpdateBlogRequest carries optional fields; a nil field is left unchanged on PATCH.
type UpdateBlogRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Tagline *string `json:"tagline"`

	blogReadOnly
}

type commentReadOnly struct {
	ID        json.RawMessage `json:"id"`
	Author    json.RawMessage `json:"author"`
	Blog      json.RawMessage `json:"blog"`
	CreatedAt json.RawMessage `json:"created_at"`
}

type CreateCommentRequest struct {
	Text string `json:"text"`

	commentReadOnly
}

type BlogModel struct {
	db *sql.DB
}

type BlogService struct {
	m      *BlogModel
	mb     common.MessageProducer
	logger *slog.Logger
}
