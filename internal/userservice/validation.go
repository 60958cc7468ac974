package userservice

import (
	"regexp"

	"github.com/sushihentaime/bloggingapp/internal/common"
)

var (
	EmailRX    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	UsernameRX = regexp.MustCompile(`^[\w.@+\-]+$`)
)

func validateUsername(v *common.Validator, username string) {
	v.Check(username != "", "username", "must be provided")
	v.Check(v.CheckStringLength(username, 1, 150), "username", "must not be more than 150 characters long")
	v.Check(UsernameRX.MatchString(username), "username", "may only contain letters, numbers, and @/./+/-/_ characters")
}

// validateEmail accepts an empty address; the field is optional.
func validateEmail(v *common.Validator, email string) {
	if email == "" {
		return
	}
	v.Check(EmailRX.MatchString(email), "email", "must be a valid email address")
}

func validatePassword(v *common.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

func validateName(v *common.Validator, name, field string) {
	v.Check(v.CheckStringLength(name, 0, 150), field, "must not be more than 150 characters long")
}

func validateCreateUser(v *common.Validator, req *CreateUserRequest) {
	validateUsername(v, req.Username)
	validateEmail(v, req.Email)
	validatePassword(v, req.Password)
	validateName(v, req.FirstName, "first_name")
	validateName(v, req.LastName, "last_name")
}

func validateUpdateUser(v *common.Validator, req *UpdateUserRequest) {
	validateUsername(v, req.Username)
	validateEmail(v, req.Email)
	if req.Password != "" {
		validatePassword(v, req.Password)
	}
	validateName(v, req.FirstName, "first_name")
	validateName(v, req.LastName, "last_name")
}

func validateInt(v *common.Validator, num int64, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
