package handlers

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	zhTranslations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/pkg/errors"
)

var trans ut.Translator

// InitTrans registers validator messages in lang (en or zh) and makes
// validation errors name fields by their json or form key.
func InitTrans(lang string) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("handlers: unexpected validator engine")
	}

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})

	enT := en.New()
	uni := ut.New(enT, zh.New(), enT)
	trans, ok = uni.GetTranslator(lang)
	if !ok {
		return errors.Errorf("handlers: no translator for %q", lang)
	}

	var err error
	switch lang {
	case "zh":
		err = zhTranslations.RegisterDefaultTranslations(v, trans)
	default:
		err = enTranslations.RegisterDefaultTranslations(v, trans)
	}
	return errors.Wrap(err, "handlers: register translations")
}

// translate turns binding errors into field -> message pairs. Anything that
// is not a validation error (malformed JSON, wrong types) gets one message.
func translate(err error) any {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && trans != nil {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = fe.Translate(trans)
		}
		return out
	}
	return "Malformed request body"
}
