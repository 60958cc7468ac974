package blogservice

import (
	"context"

	"github.com/sushihentaime/bloggingapp/internal/common"
)

// insertLike is idempotent; a missing blog is reported as ErrRecordNotFound.
func (m *BlogModel) insertLike(ctx context.Context, userID, blogID int64) error {
	query := `
		INSERT INTO likes (user_id, blog_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, blog_id) DO NOTHING`

	_, err := m.db.ExecContext(ctx, query, userID, blogID)
	if err != nil {
		switch {
		case common.ForeignKeyViolation(err, "likes_blog_id_fkey"):
			return ErrRecordNotFound
		case common.ForeignKeyViolation(err, "likes_user_id_fkey"):
			return ErrUserForeignKey
		default:
			return err
		}
	}

	return nil
}

func (m *BlogModel) deleteLike(ctx context.Context, userID, blogID int64) error {
	query := `
		DELETE FROM likes
		WHERE user_id = $1 AND blog_id = $2`

	res, err := m.db.ExecContext(ctx, query, userID, blogID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// LikeBlog records that userID likes the blog. Liking twice is not an error.
func (s *BlogService) LikeBlog(ctx context.Context, userID, blogID int64) error {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	validateInt(v, blogID, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.insertLike(ctx, userID, blogID)
}

// UnlikeBlog removes the like; ErrRecordNotFound when there was none.
func (s *BlogService) UnlikeBlog(ctx context.Context, userID, blogID int64) error {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	validateInt(v, blogID, "id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deleteLike(ctx, userID, blogID)
}
