package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	notBlankTag      = "notblank"
	studentNumberTag = "studentnumber"
	passwordTag      = "password"
	phoneTag         = "phone"
)

func init() {
	Validate = validator.New()
	// Same tag gin reads, so request structs are declared once
	Validate.SetTagName("binding")

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Report json (or form) names instead of Go field names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = Validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = Validate.RegisterValidation(studentNumberTag, func(fl validator.FieldLevel) bool {
		return CompiledPatterns.StudentNumber.MatchString(fl.Field().String())
	})
	_ = Validate.RegisterValidation(passwordTag, func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	_ = Validate.RegisterValidation(phoneTag, func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Phone.MatchString(fl.Field().String())
	})

	registerTranslation(notBlankTag, "{0} cannot be blank")
	registerTranslation(studentNumberTag, "{0} must be exactly 8 digits")
	registerTranslation(passwordTag, "{0} must be at least 8 characters and contain a letter and a digit")
	registerTranslation(phoneTag, "{0} must be a valid phone number")
}

func registerTranslation(tag, text string) {
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates s with the shared validator
func Struct(s interface{}) error {
	return Validate.Struct(s)
}

// FieldErrors translates a validator error into field -> message. It returns
// nil when err does not carry field errors.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(Translator)
	}
	return out
}
