package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/movie-news/internal/model"
)

var (
	fullRules  = newValidator("validate")
	patchRules = newValidator("patch")
)

func newValidator(tag string) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName(tag)
	// report JSON names so errors line up with what the client sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a transfer object used for create or full update: every
// required field must be present and non-empty and the image pair must be
// complete or absent.
func Validate(v any) error {
	if err := check(fullRules, v); err != nil {
		return err
	}
	return checkImage(v)
}

// ValidatePatch checks a merge patch: required fields may be absent but,
// when present, must be non-empty.  Sending only one half of the image
// pair is rejected.
func ValidatePatch(v any) error {
	if err := check(patchRules, v); err != nil {
		return err
	}
	return checkImage(v)
}

func check(rules *validator.Validate, v any) error {
	err := rules.Struct(v)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		f := fields[0]
		return &model.ValidationError{Field: f.Field(), Message: message(f)}
	}
	return &model.ValidationError{Field: "", Message: err.Error()}
}

func message(f validator.FieldError) string {
	switch f.Tag() {
	case "required":
		return "is required"
	case "min":
		if f.Param() == "1" {
			return "must not be empty"
		}
		return "must be at least " + f.Param() + " characters"
	case "max":
		return "must be at most " + f.Param() + " characters"
	case "email":
		return "must be a valid email address"
	}
	return "is invalid"
}

func checkImage(v any) error {
	var (
		data []byte
		ct   *string
	)
	switch t := v.(type) {
	case Movie:
		data, ct = t.Image, t.ImageContentType
	case *Movie:
		data, ct = t.Image, t.ImageContentType
	case News:
		data, ct = t.Image, t.ImageContentType
	case *News:
		data, ct = t.Image, t.ImageContentType
	default:
		return nil
	}
	if (data == nil) != (ct == nil) {
		return &model.ValidationError{Field: "image", Message: "image and imageContentType must be set together"}
	}
	return nil
}
