package blogservice

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/sushihentaime/bloggingapp/internal/common"
)

func NewBlogService(db *sql.DB, mb common.MessageProducer, logger *slog.Logger) *BlogService {
	return &BlogService{m: newBlogModel(db), mb: mb, logger: logger}
}

// CreateBlog creates a new blog post authored by userID.
func (s *BlogService) CreateBlog(ctx context.Context, userID int64, req *CreateBlogRequest) (*Blog, error) {
	v := common.NewValidator()
	validateCreateBlog(v, req)
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	blog := &Blog{
		Title:   req.Title,
		Content: sanitizeMarkdown(req.Content),
		Tagline: req.Tagline,
		Author:  userID,
	}

	if err := s.m.insert(ctx, blog); err != nil {
		return nil, err
	}

	return blog, nil
}

// GetBlog returns a blog post by its ID, whoever wrote it.
func (s *BlogService) GetBlog(ctx context.Context, id, viewerID int64) (*Blog, error) {
	v := common.NewValidator()
	validateInt(v, id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBlogByID(ctx, id, viewerID)
}

// UpdateBlog updates a blog post. Only the user who created the blog post can update it.
// With partial set, absent fields keep their value.
func (s *BlogService) UpdateBlog(ctx context.Context, userID, id int64, req *UpdateBlogRequest, partial bool) (*Blog, error) {
	v := common.NewValidator()
	validateUpdateBlog(v, req, partial)
	validateInt(v, id, "id")
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if req.Content != nil {
		content := sanitizeMarkdown(*req.Content)
		req.Content = &content
	}

	if err := s.m.updateBlog(ctx, id, userID, req); err != nil {
		return nil, err
	}

	return s.m.getBlogByID(ctx, id, userID)
}

// DeleteBlog deletes a blog post with its likes and comments. Only the user who created the blog post can delete it.
func (s *BlogService) DeleteBlog(ctx context.Context, userID, id int64) error {
	v := common.NewValidator()
	validateInt(v, id, "id")
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return v.ValidationError()
	}

	return s.m.deleteBlog(ctx, id, userID)
}

// ListBlogs returns the blog posts written by userID.
func (s *BlogService) ListBlogs(ctx context.Context, userID int64) ([]Blog, error) {
	v := common.NewValidator()
	validateInt(v, userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBlogsByUserID(ctx, userID)
}

// ListAllBlogs returns every blog post, with is_liked computed for viewerID.
func (s *BlogService) ListAllBlogs(ctx context.Context, viewerID int64) ([]Blog, error) {
	return s.m.getBlogs(ctx, viewerID)
}
