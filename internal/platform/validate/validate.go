// Package validate wraps go-playground/validator with english messages
// and config-key field names
package validate

import (
	"reflect"
	"strings"
	"sync"

	perr "jakebot/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldLevel aliases validator.FieldLevel
type FieldLevel = validator.FieldLevel

// Svc holds a singleton validator and translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once sync.Once
	svc  *Svc
)

// Get returns the validator singleton, initializing on first use
func Get() *Svc {
	once.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// report fields by the config key they are read from
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"config", "json"} {
				name := fld.Tag.Get(tag)
				if idx := strings.Index(name, ","); idx >= 0 {
					name = name[:idx]
				}
				if name != "" && name != "-" {
					return name
				}
			}
			return fld.Name
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		registerShort(v, trans, "min", "{0} must be at least {1}")
		registerShort(v, trans, "max", "{0} must be at most {1}")

		_ = v.RegisterValidation("nomarkup", noMarkup)
		registerShort(v, trans, "nomarkup", "{0} must not contain braces or a colon")

		svc = &Svc{Validator: v, Translator: trans}
	})
	return svc
}

// Struct validates s and returns a perr validation error naming every failing field
func Struct(s any) error {
	err := Get().Validator.Struct(s)
	if err == nil {
		return nil
	}
	msgs := Messages(err)
	out := perr.Validationf("%s", strings.Join(msgs, "; "))
	if field, _ := FieldAndMessage(err); field != "" {
		out = perr.WithField(out, field)
	}
	return out
}

// Messages returns one translated message per failing field
func Messages(err error) []string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Translate(Get().Translator))
	}
	return out
}

// FieldAndMessage returns the first field and translated message
func FieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	if inv, ok := err.(*validator.InvalidValidationError); ok {
		return "", inv.Error()
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	return "", err.Error()
}

// noMarkup rejects names that would break the {Name: TOKEN} command grammar
func noMarkup(fl FieldLevel) bool {
	return !strings.ContainsAny(fl.Field().String(), "{}:")
}

func registerShort(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
