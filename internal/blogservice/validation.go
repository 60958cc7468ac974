package blogservice

import (
	"github.com/sushihentaime/bloggingapp/internal/common"
)

const maxTitleLength = 200

func validateTitle(v *common.Validator, title string) {
	v.Check(v.NotBlank(title), "title", "must be provided")
	v.Check(v.CheckStringLength(title, 1, maxTitleLength), "title", "must not be more than 200 characters long")
}

// Content and text are checked as they will be stored, after script stripping.
func validateContent(v *common.Validator, content string) {
	v.Check(v.NotBlank(sanitizeMarkdown(content)), "content", "must be provided")
}

func validateTagline(v *common.Validator, tagline string) {
	v.Check(v.NotBlank(tagline), "tagline", "must be provided")
}

func validateText(v *common.Validator, text string) {
	v.Check(v.NotBlank(sanitizeMarkdown(text)), "text", "must be provided")
}

func validateCreateBlog(v *common.Validator, req *CreateBlogRequest) {
	validateTitle(v, req.Title)
	validateContent(v, req.Content)
	validateTagline(v, req.Tagline)
}

// validateUpdateBlog checks the present fields; a full update requires all of them.
func validateUpdateBlog(v *common.Validator, req *UpdateBlogRequest, partial bool) {
	check := func(s *string, field string, fn func(*common.Validator, string)) {
		if s == nil {
			if !partial {
				v.AddError(field, "must be provided")
			}
			return
		}
		fn(v, *s)
	}

	check(req.Title, "title", validateTitle)
	check(req.Content, "content", validateContent)
	check(req.Tagline, "tagline", validateTagline)
}

func validateInt(v *common.Validator, num int64, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
