package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	once     sync.Once
	validate *govalidator.Validate
	trans    ut.Translator
)

// setup builds the shared validator with English translations and JSON tag
// names in messages.
func setup() {
	validate = govalidator.New(govalidator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)
}

// Struct validates v. It returns nil on success or field → message.
func Struct(v any) map[string]string {
	once.Do(setup)
	if err := validate.Struct(v); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// Var validates a single value against tag, reported under field.
func Var(field string, v any, tag string) map[string]string {
	once.Do(setup)
	if err := validate.Var(v, tag); err != nil {
		var ve govalidator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return map[string]string{field: field + " " + strings.TrimSpace(ve[0].Translate(trans))}
		}
		return map[string]string{field: err.Error()}
	}
	return nil
}

// TranslateErrors takes a validation error and returns a map of field name →
// human-readable error message. Other errors land under "detail".
func TranslateErrors(err error) map[string]string {
	once.Do(setup)
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}
