package blogservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sushihentaime/bloggingapp/internal/common"
)

var (
	ErrRecordNotFound = common.ErrRecordNotFound
	ErrUserForeignKey = errors.New("user_id does not exist")
)

// blogColumns selects a blog with its like count and whether the viewer ($1) liked it.
const blogColumns = `
	SELECT b.id, b.title, b.content, b.tagline, b.user_id, b.created_at,
		(SELECT COUNT(*) FROM likes l WHERE l.blog_id = b.id),
		EXISTS (SELECT 1 FROM likes l WHERE l.blog_id = b.id AND l.user_id = $1)
	FROM blogs b`

func newBlogModel(db *sql.DB) *BlogModel {
	return &BlogModel{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (*Blog, error) {
	var blog Blog
	err := row.Scan(&blog.ID, &blog.Title, &blog.Content, &blog.Tagline, &blog.Author, &blog.CreatedAt, &blog.NumLikes, &blog.IsLiked)
	if err != nil {
		return nil, err
	}

	return &blog, nil
}

func (m *BlogModel) insert(ctx context.Context, blog *Blog) error {
	query := `
		INSERT INTO blogs (title, content, tagline, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := m.db.QueryRowContext(ctx, query, blog.Title, blog.Content, blog.Tagline, blog.Author).Scan(&blog.ID, &blog.CreatedAt)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "blogs_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

// getBlogByID returns any blog by id; the viewer only affects is_liked.
func (m *BlogModel) getBlogByID(ctx context.Context, id, viewerID int64) (*Blog, error) {
	query := blogColumns + `
		WHERE b.id = $2`

	blog, err := scanBlog(m.db.QueryRowContext(ctx, query, viewerID, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return blog, nil
}

// updateBlog applies the non-nil fields of req to a blog owned by userID.
func (m *BlogModel) updateBlog(ctx context.Context, id, userID int64, req *UpdateBlogRequest) error {
	query := `
		UPDATE blogs
		SET title = COALESCE($1, title), content = COALESCE($2, content), tagline = COALESCE($3, tagline)
		WHERE id = $4 AND user_id = $5
		RETURNING id`

	var updated int64
	err := m.db.QueryRowContext(ctx, query, req.Title, req.Content, req.Tagline, id, userID).Scan(&updated)
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

func (m *BlogModel) deleteBlog(ctx context.Context, blogID, userID int64) error {
	query := `
		DELETE FROM blogs
		WHERE id = $1 AND user_id = $2`

	res, err := m.db.ExecContext(ctx, query, blogID, userID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows != 1 {
		switch {
		case rows == 0:
			return ErrRecordNotFound
		default:
			return fmt.Errorf("expected 1 row to be affected, got %d", rows)
		}
	}

	return nil
}

func (m *BlogModel) queryBlogs(ctx context.Context, query string, args ...any) ([]Blog, error) {
	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := []Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *blog)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return blogs, nil
}

// getBlogsByUserID lists the blogs authored by userID, who is also the viewer.
func (m *BlogModel) getBlogsByUserID(ctx context.Context, userID int64) ([]Blog, error) {
	query := blogColumns + `
		WHERE b.user_id = $1
		ORDER BY b.id ASC`

	return m.queryBlogs(ctx, query, userID)
}

func (m *BlogModel) getBlogs(ctx context.Context, viewerID int64) ([]Blog, error) {
	query := blogColumns + `
		ORDER BY b.id ASC`

	return m.queryBlogs(ctx, query, viewerID)
}
