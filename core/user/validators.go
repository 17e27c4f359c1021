package user

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eduplatform/core"
)

// MaxPasswordLen is the longest password (in bytes) bcrypt accepts.
const MaxPasswordLen = 72

var (
	roleTag  = "userrole"
	roleText = "role must be one of " + strings.Join(roleNames(), ", ")

	pwdLenTag  = "pwdlen"
	pwdLenText = fmt.Sprintf("password must be at most %d bytes long", MaxPasswordLen)
)

func init() {
	// register validators
	_ = core.Validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, roleTag, roleText)

	_ = core.Validate.RegisterValidation(pwdLenTag, pwdLenValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, pwdLenTag, pwdLenText)
}

func roleNames() []string {
	names := make([]string, 0, len(AllRoles))
	for _, r := range AllRoles {
		names = append(names, r.String())
	}
	return names
}

// Custom Validators

// roleValidation checks that the provided role is in AllRoles
func roleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).IsValid()
}

// pwdLenValidation counts bytes, not runes, since that is what bcrypt limits.
func pwdLenValidation(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxPasswordLen
}
