package blogservice

import (
	"context"
	"crypto/rand"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/bloggingapp/internal/common"
)

// setupTestUser is a helper function to create a test user in the database.
func setupTestUser(db *sql.DB, username, email string) (int64, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id`

	var id int64
	err = db.QueryRow(query, username, email, randomBytes).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func setupTestEnvironment(t *testing.T) (*BlogService, *sql.DB, *common.RecordingProducer, func() error, int64) {
	db := common.TestDB("file://../../migrations", t)
	mb := &common.RecordingProducer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	id, err := setupTestUser(db, "Tester", "tester@example.com")
	require.NoError(t, err)

	cleanup := func() error {
		_, err := db.Exec("DELETE FROM blogs")
		if err != nil {
			return err
		}

		mb.Messages = nil

		return nil
	}

	return NewBlogService(db, mb, logger), db, mb, cleanup, id
}

func createRandomBlog(db *sql.DB, userID int64) (int64, error) {
	query := `
		INSERT INTO blogs (title, content, tagline, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int64
	err := db.QueryRow(query, "Test blog", "Content text", "blog python django", userID).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

func strPtr(s string) *string {
	return &s
}

func TestCreateBlog(t *testing.T) {
	s, db, _, cleanup, userID := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		userID      int64
		blog        *CreateBlogRequest
		expectedErr error
	}{
		{
			name:   "valid blog",
			userID: userID,
			blog: &CreateBlogRequest{
				Title:   "Test blog",
				Content: "Content text",
				Tagline: "blog python django",
			},
		},
		{
			name:   "empty title",
			userID: userID,
			blog: &CreateBlogRequest{
				Content: "Content text",
				Tagline: "blog python django",
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
		{
			name:        "empty payload",
			userID:      userID,
			blog:        &CreateBlogRequest{},
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided", "content": "must be provided", "tagline": "must be provided"}},
		},
		{
			name:        "missing user ID",
			blog:        &CreateBlogRequest{Title: "Test blog", Content: "Content text", Tagline: "blog"},
			expectedErr: common.ValidationError{Errors: map[string]string{"user_id": "must be greater than zero"}},
		},
		{
			name:        "unknown user ID",
			userID:      userID + 999,
			blog:        &CreateBlogRequest{Title: "Test blog", Content: "Content text", Tagline: "blog"},
			expectedErr: ErrUserForeignKey,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			blog, err := s.CreateBlog(context.Background(), tc.userID, tc.blog)
			assert.Equal(t, tc.expectedErr, err)

			if err == nil {
				assert.Positive(t, blog.ID)
				assert.Equal(t, tc.userID, blog.Author)
				assert.False(t, blog.CreatedAt.IsZero())
				assert.Zero(t, blog.NumLikes)

				var count int
				err := db.QueryRow("SELECT COUNT(*) FROM blogs").Scan(&count)
				assert.NoError(t, err)
				assert.Equal(t, 1, count)
			}

			t.Cleanup(func() {
				assert.NoError(t, cleanup())
			})
		})
	}
}

func TestCreateBlogStripsScripts(t *testing.T) {
	s, _, _, cleanup, userID := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	blog, err := s.CreateBlog(context.Background(), userID, &CreateBlogRequest{
		Title:   "Test blog",
		Content: "safe<script>alert(1)</script>",
		Tagline: "blog",
	})
	require.NoError(t, err)
	assert.Equal(t, "safe", blog.Content)

	_, err = s.CreateBlog(context.Background(), userID, &CreateBlogRequest{
		Title:   "Test blog",
		Content: "<script>alert(1)</script>",
		Tagline: "blog",
	})
	assert.Equal(t, common.ValidationError{Errors: map[string]string{"content": "must be provided"}}, err)

	_, err = s.CreateComment(context.Background(), userID, blog.ID, &CreateCommentRequest{Text: "<script>alert(1)</script>"})
	assert.Equal(t, common.ValidationError{Errors: map[string]string{"text": "must be provided"}}, err)
}

func TestListBlogs(t *testing.T) {
	s, db, _, cleanup, userID := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	ctx := context.Background()

	blogs, err := s.ListBlogs(ctx, userID)
	require.NoError(t, err)
	assert.NotNil(t, blogs)
	assert.Empty(t, blogs)

	otherID, err := setupTestUser(db, "User", "")
	require.NoError(t, err)

	first, err := createRandomBlog(db, userID)
	require.NoError(t, err)
	_, err = createRandomBlog(db, otherID)
	require.NoError(t, err)
	second, err := createRandomBlog(db, userID)
	require.NoError(t, err)

	blogs, err = s.ListBlogs(ctx, userID)
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	assert.Equal(t, first, blogs[0].ID)
	assert.Equal(t, second, blogs[1].ID)
	assert.Equal(t, "Test blog", blogs[0].Title)
	assert.Equal(t, "blog python django", blogs[0].Tagline)
	assert.Equal(t, 0, blogs[0].NumLikes)

	all, err := s.ListAllBlogs(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetBlog(t *testing.T) {
	s, db, _, cleanup, userID := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	blogID, err := createRandomBlog(db, userID)
	require.NoError(t, err)

	otherID, err := setupTestUser(db, "Reader", "")
	require.NoError(t, err)

	testCases := []struct {
		name        string
		id          int64
		viewer      int64
		expectedErr error
	}{
		{name: "author", id: blogID, viewer: userID},
		{name: "other user", id: blogID, viewer: otherID},
		{name: "unknown ID", id: blogID + 999, viewer: userID, expectedErr: ErrRecordNotFound},
		{name: "invalid ID", id: 0, viewer: userID, expectedErr: common.ValidationError{Errors: map[string]string{"id": "must be greater than zero"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			blog, err := s.GetBlog(context.Background(), tc.id, tc.viewer)
			if tc.expectedErr != nil {
				assert.Nil(t, blog)
				assert.Equal(t, tc.expectedErr, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, blog.Author)
			}
		})
	}
}

func TestUpdateBlog(t *testing.T) {
	s, db, _, cleanup, userID := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	otherID, err := setupTestUser(db, "Intruder", "")
	require.NoError(t, err)

	testCases := []struct {
		name        string
		userID      int64
		req         *UpdateBlogRequest
		partial     bool
		expected    *Blog
		expectedErr error
	}{
		{
			name:     "full update",
			userID:   userID,
			req:      &UpdateBlogRequest{Title: strPtr("Updated"), Content: strPtr("New content"), Tagline: strPtr("go")},
			expected: &Blog{Title: "Updated", Content: "New content", Tagline: "go"},
		},
		{
			name:     "partial update",
			userID:   userID,
			req:      &UpdateBlogRequest{Title: strPtr("Only title")},
			partial:  true,
			expected: &Blog{Title: "Only title", Content: "Content text", Tagline: "blog python django"},
		},
		{
			name:        "full update missing fields",
			userID:      userID,
			req:         &UpdateBlogRequest{Title: strPtr("Only title")},
			expectedErr: common.ValidationError{Errors: map[string]string{"content": "must be provided", "tagline": "must be provided"}},
		},
		{
			name:        "blank title",
			userID:      userID,
			req:         &UpdateBlogRequest{Title: strPtr("  ")},
			partial:     true,
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
		{
			name:        "not the author",
			userID:      otherID,
			req:         &UpdateBlogRequest{Title: strPtr("Hijacked")},
			partial:     true,
			expectedErr: ErrRecordNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			blogID, err := createRandomBlog(db, userID)
			require.NoError(t, err)

			blog, err := s.UpdateBlog(context.Background(), tc.userID, blogID, tc.req, tc.partial)
			assert.Equal(t, tc.expectedErr, err)

			if tc.expectedErr == nil {
				assert.Equal(t, tc.expected.Title, blog.Title)
				assert.Equal(t, tc.expected.Content, blog.Content)
				assert.Equal(t, tc.expected.Tagline, blog.Tagline)
				assert.Equal(t, userID, blog.Author)
			}

			if tc.expectedErr == ErrRecordNotFound {
				stored, err := s.GetBlog(context.Background(), blogID, userID)
				require.NoError(t, err)
				assert.Equal(t, "Test blog", stored.Title)
			}
		})
	}
}

func TestDeleteBlog(t *testing.T) {
	s, db, _, cleanup, userID := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	ctx := context.Background()

	otherID, err := setupTestUser(db, "Intruder", "")
	require.NoError(t, err)

	blogID, err := createRandomBlog(db, userID)
	require.NoError(t, err)

	require.NoError(t, s.LikeBlog(ctx, otherID, blogID))
	_, err = s.CreateComment(ctx, otherID, blogID, &CreateCommentRequest{Text: "Nice"})
	require.NoError(t, err)

	assert.Equal(t, ErrRecordNotFound, s.DeleteBlog(ctx, otherID, blogID))
	require.NoError(t, s.DeleteBlog(ctx, userID, blogID))
	assert.Equal(t, ErrRecordNotFound, s.DeleteBlog(ctx, userID, blogID))

	blogs, err := s.ListBlogs(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, blogs)

	var likes, comments int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM likes").Scan(&likes))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM comments").Scan(&comments))
	assert.Zero(t, likes)
	assert.Zero(t, comments)
}

func TestLikeBlog(t *testing.T) {
	s, db, _, cleanup, userID := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	ctx := context.Background()

	otherID, err := setupTestUser(db, "User", "")
	require.NoError(t, err)

	blogID, err := createRandomBlog(db, userID)
	require.NoError(t, err)

	likes := func(viewer int64) (int, bool) {
		blog, err := s.GetBlog(ctx, blogID, viewer)
		require.NoError(t, err)
		return blog.NumLikes, blog.IsLiked
	}

	require.NoError(t, s.LikeBlog(ctx, otherID, blogID))
	n, liked := likes(userID)
	assert.Equal(t, 1, n)
	assert.False(t, liked)

	require.NoError(t, s.LikeBlog(ctx, userID, blogID))
	n, liked = likes(userID)
	assert.Equal(t, 2, n)
	assert.True(t, liked)

	// liking again is a no-op
	require.NoError(t, s.LikeBlog(ctx, userID, blogID))
	n, _ = likes(userID)
	assert.Equal(t, 2, n)

	require.NoError(t, s.UnlikeBlog(ctx, otherID, blogID))
	n, liked = likes(otherID)
	assert.Equal(t, 1, n)
	assert.False(t, liked)

	assert.Equal(t, ErrRecordNotFound, s.UnlikeBlog(ctx, otherID, blogID))
	assert.Equal(t, ErrRecordNotFound, s.LikeBlog(ctx, userID, blogID+999))
}

func TestComments(t *testing.T) {
	s, db, mb, cleanup, userID := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	ctx := context.Background()

	otherID, err := setupTestUser(db, "User", "")
	require.NoError(t, err)

	blogID, err := createRandomBlog(db, userID)
	require.NoError(t, err)

	comments, err := s.ListComments(ctx, blogID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	_, err = s.CreateComment(ctx, otherID, blogID, &CreateCommentRequest{Text: ""})
	assert.Equal(t, common.ValidationError{Errors: map[string]string{"text": "must be provided"}}, err)

	_, err = s.CreateComment(ctx, otherID, blogID+999, &CreateCommentRequest{Text: "Hello"})
	assert.Equal(t, ErrRecordNotFound, err)

	c, err := s.CreateComment(ctx, otherID, blogID, &CreateCommentRequest{Text: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, otherID, c.Author)
	assert.Equal(t, blogID, c.Blog)
	assert.Equal(t, 1, mb.Count(common.CommentCreatedKey))

	// the author commenting on their own blog is not announced
	_, err = s.CreateComment(ctx, userID, blogID, &CreateCommentRequest{Text: "Thanks"})
	require.NoError(t, err)
	assert.Equal(t, 1, mb.Count(common.CommentCreatedKey))

	comments, err = s.ListComments(ctx, blogID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Hello", comments[0].Text)
	assert.Equal(t, "Thanks", comments[1].Text)

	assert.Equal(t, ErrRecordNotFound, s.DeleteComment(ctx, userID, c.ID))
	require.NoError(t, s.DeleteComment(ctx, otherID, c.ID))

	comments, err = s.ListComments(ctx, blogID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestCreateCommentPublishFailure(t *testing.T) {
	s, db, mb, cleanup, userID := setupTestEnvironment(t)
	t.Cleanup(func() { assert.NoError(t, cleanup()) })

	mb.Err = assert.AnError

	otherID, err := setupTestUser(db, "User", "")
	require.NoError(t, err)

	blogID, err := createRandomBlog(db, userID)
	require.NoError(t, err)

	c, err := s.CreateComment(context.Background(), otherID, blogID, &CreateCommentRequest{Text: "Hello"})
	require.NoError(t, err)
	assert.Positive(t, c.ID)
}
