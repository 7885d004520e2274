package account

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/mawere/uniport/core"
)

// Pre-validation here is advisory only: it exists to cut round trips, and the
// server remains the final authority on every submission.
var (
	// email shape: something@something.something
	emailShapeTag   = "emailshape"
	emailShapeText  = "Please enter a valid email address"
	emailShapeRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// password policy
	pwdMinLen     = 6
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("Password must be at least %d characters long", pwdMinLen)

	pwdMatchTag  = "pwdmatch"
	pwdMatchText = "Passwords do not match"

	// similarity threshold for non-gating password warnings
	pwdMaxSim = .7
)

func init() {
	// register validators
	_ = core.Validate.RegisterValidation(emailShapeTag, emailShapeValidation)
	core.RegisterCustomTranslation(emailShapeTag, emailShapeText)

	core.Validate.RegisterStructValidation(registrationStructValidation, StudentRegistration{})
	core.Validate.RegisterStructValidation(registrationStructValidation, AdminRegistration{})
	core.RegisterCustomTranslation(pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(pwdMatchTag, pwdMatchText)
}

// emailShapeValidation applies the same loose shape check the sign-up form
// performs: one @ with a dotted domain segment after it.
func emailShapeValidation(fl validator.FieldLevel) bool {
	return emailShapeRegex.MatchString(fl.Field().String())
}

// registrationStructValidation applies the password policy to both
// registration forms.
func registrationStructValidation(sl validator.StructLevel) {
	switch reg := sl.Current().Interface().(type) {
	case StudentRegistration:
		validatePassword(reg.Password, reg.ConfirmPassword, sl)
	case AdminRegistration:
		validatePassword(reg.Password, reg.ConfirmPassword, sl)
	}
}

// validatePassword checks the minimum length and the confirmation match.
func validatePassword(pwd, confirm string, sl validator.StructLevel) {
	if pwd == "" {
		return // the required tag already reports it
	}
	if len(pwd) < pwdMinLen {
		sl.ReportError(pwd, "password", "Password", pwdMinLenTag, "")
		return
	}
	if pwd != confirm {
		sl.ReportError(confirm, "confirmPassword", "ConfirmPassword", pwdMatchTag, "")
	}
}

// PasswordWarnings returns non-gating quality hints for a password against
// the user's own attributes. These never block a submission.
func PasswordWarnings(pwd string, attrs ...string) []string {
	var warnings []string
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		ratio := difflib.NewMatcher(strings.Split(pwd, ""), strings.Split(attr, "")).QuickRatio()
		if ratio >= pwdMaxSim {
			warnings = append(warnings, fmt.Sprintf("password is very similar to %q", attr))
		}
	}
	return warnings
}
