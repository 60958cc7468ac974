package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/bloggingapp/internal/common"
)

// commentNotice holds what the comment notification needs about the blog.
type commentNotice struct {
	blogTitle   string
	authorID    int64
	authorEmail string
	commenter   string
}

func (m *BlogModel) insertComment(ctx context.Context, c *Comment) (*commentNotice, error) {
	query := `
		WITH c AS (
			INSERT INTO comments (user_id, blog_id, text)
			VALUES ($1, $2, $3)
			RETURNING id, user_id, blog_id, created_at
		)
		SELECT c.id, c.created_at, b.title, a.id, a.email, u.username
		FROM c
		JOIN blogs b ON b.id = c.blog_id
		JOIN users a ON a.id = b.user_id
		JOIN users u ON u.id = c.user_id`

	var n commentNotice
	err := m.db.QueryRowContext(ctx, query, c.Author, c.Blog, c.Text).Scan(&c.ID, &c.CreatedAt, &n.blogTitle, &n.authorID, &n.authorEmail, &n.commenter)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "comments_blog_id_fkey"):
			return nil, ErrRecordNotFound
		case common.ForeignKeyViolation(err, "comments_user_id_fkey"):
			return nil, ErrUserForeignKey
		default:
			return nil, err
		}
	}

	return &n, nil
}

func (m *BlogModel) getCommentsByBlogID(ctx context.Context, blogID int64) ([]Comment, error) {
	query := `
		SELECT id, user_id, blog_id, text, created_at
		FROM comments
		WHERE blog_id = $1
		ORDER BY id ASC`

	rows, err := m.db.QueryContext(ctx, query, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.Author, &c.Blog, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (m *BlogModel) deleteComment(ctx context.Context, commentID, userID int64) error {
	query := `
		DELETE FROM comments
		WHERE id = $1 AND user_id = $2
		RETURNING id`

	var id int64
	err := m.db.QueryRowContext(ctx, query, commentID, userID).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	return nil
}

// ListComments returns the comments of a blog, oldest first. An unknown blog has none.
func (s *BlogService) ListComments(ctx context.Context, blogID int64) ([]Comment, error) {
	v := common.NewValidator()
	validateInt(v, blogID, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getCommentsByBlogID(ctx, blogID)
}

// CreateComment stores a comment by userID and notifies the blog author when someone else commented.
func (s *BlogService) CreateComment(ctx context.Context, userID, blogID int64, req *CreateCommentRequest) (*Comment, error) {
	v := common.NewValidator()
	validateText(v, req.Text)
	validateInt(v, userID, "user_id")
	validateInt(v, blogID, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	c := &Comment{
		Author: userID,
		Blog:   blogID,
		Text:   sanitizeMarkdown(req.Text),
	}

	n, err := s.m.insertComment(ctx, c)
	if err != nil {
		return nil, err
	}

	if n.authorID != userID && n.authorEmail != "" {
		event := common.CommentCreatedEvent{
			CommentID:   c.ID,
			BlogID:      c.Blog,
			BlogTitle:   n.blogTitle,
			AuthorEmail: n.authorEmail,
			Commenter:   n.commenter,
			Text:        c.Text,
		}

		if err := common.PublishEvent(ctx, s.mb, common.CommentCreatedKey, common.BlogExchange, event); err != nil {
			s.logger.Error("could not publish comment event", "comment_id", c.ID, "error", err)
		}
	}

	return c, nil
}

// DeleteComment deletes a comment written by userID.
func (s *BlogService) DeleteComment(ctx context.Context, userID, commentID int64) error {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	validateInt(v, commentID, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deleteComment(ctx, commentID, userID)
}
