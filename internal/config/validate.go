package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/verte-zerg/cardtype/internal/model"
)

type validatorSvc struct {
	validator  *validator.Validate
	translator ut.Translator
}

var validation = newValidator()

// newValidator names fields after their CLI flag so messages point at the
// flag to fix.
func newValidator() validatorSvc {
	enLoc := en.New()
	uni := ut.New(enLoc, enLoc)
	trans, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if tag := fld.Tag.Get("flag"); tag != "" {
			return "--" + tag
		}
		return fld.Name
	})
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	registerShort(v, trans, "required", "{0} must be set", nil)
	registerShort(v, trans, "oneof", "{0} must be one of: {1}", func(param string) string {
		return strings.Join(strings.Fields(param), ", ")
	})
	registerShort(v, trans, "gte", "{0} must be >= {1}", nil)

	return validatorSvc{validator: v, translator: trans}
}

func registerShort(v *validator.Validate, trans ut.Translator, tag, text string, param func(string) string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			p := fe.Param()
			if param != nil {
				p = param(p)
			}
			msg, _ := ut.T(tag, fe.Field(), p)
			return msg
		},
	)
}

// Validate checks a resolved practice config and reports the first
// offending flag.
func Validate(cfg model.Config) error {
	err := validation.validator.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("invalid config: %w", err)
	}
	return errors.New(verrs[0].Translate(validation.translator))
}
