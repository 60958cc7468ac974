package mailservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTemplate(t *testing.T) {
	template := NewTemplate()

	testCases := []struct {
		name         string
		templateName string
		data         any
		contains     string
		expectedErr  bool
	}{
		{
			name:         "welcome email",
			templateName: welcomeTemplate,
			data:         welcomeData{Username: "Tester"},
			contains:     "Hi Tester",
		},
		{
			name:         "comment notification",
			templateName: commentTemplate,
			data:         commentData{Commenter: "User", BlogTitle: "Test blog", Text: "<b>Nice</b>"},
			contains:     "User commented on your blog",
		},
		{
			name:         "invalid template name",
			templateName: "invalid_template.html",
			data:         nil,
			expectedErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, p, h, err := template.ParseTemplate(tc.templateName, tc.data)
			assert.Equal(t, tc.expectedErr, err != nil)

			if err == nil {
				assert.NotEmpty(t, s.String())
				assert.Contains(t, p.String(), tc.contains)
				assert.NotEmpty(t, h.String())
				assert.NotContains(t, h.String(), "<b>Nice</b>")
			}
		})
	}
}
