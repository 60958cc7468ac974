package blogservice

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/bloggingapp/internal/common"
)

func TestValidateTitle(t *testing.T) {
	testCases := []struct {
		name  string
		title string
		valid bool
	}{
		{name: "valid", title: "Test blog", valid: true},
		{name: "empty", title: "", valid: false},
		{name: "blank", title: "   ", valid: false},
		{name: "max length", title: strings.Repeat("a", 200), valid: true},
		{name: "too long", title: strings.Repeat("a", 201), valid: false},
		{name: "multibyte at max length", title: strings.Repeat("ж", 200), valid: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateTitle(v, tc.title)
			assert.Equal(t, tc.valid, v.Valid())
		})
	}
}

func TestValidateUpdateBlog(t *testing.T) {
	title := "Test blog"

	v := common.NewValidator()
	validateUpdateBlog(v, &UpdateBlogRequest{Title: &title}, true)
	assert.True(t, v.Valid())

	v = common.NewValidator()
	validateUpdateBlog(v, &UpdateBlogRequest{Title: &title}, false)
	assert.Equal(t, map[string]string{"content": "must be provided", "tagline": "must be provided"}, v.Errors)

	v = common.NewValidator()
	validateUpdateBlog(v, &UpdateBlogRequest{}, true)
	assert.True(t, v.Valid())
}

func TestValidateScriptOnlyBodies(t *testing.T) {
	script := "<script>alert(1)</script>"

	v := common.NewValidator()
	validateCreateBlog(v, &CreateBlogRequest{Title: "Test blog", Content: script, Tagline: "tag"})
	assert.Equal(t, map[string]string{"content": "must be provided"}, v.Errors)

	v = common.NewValidator()
	validateUpdateBlog(v, &UpdateBlogRequest{Content: &script}, true)
	assert.Equal(t, map[string]string{"content": "must be provided"}, v.Errors)

	v = common.NewValidator()
	validateText(v, "  "+script+"\n")
	assert.Equal(t, map[string]string{"text": "must be provided"}, v.Errors)

	v = common.NewValidator()
	validateCreateBlog(v, &CreateBlogRequest{Title: "Test blog", Content: "hello " + script, Tagline: "tag"})
	assert.True(t, v.Valid())
}
