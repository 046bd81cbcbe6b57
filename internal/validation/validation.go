// Package validation checks drafts submitted to the stores and filters
// malformed records out of persisted collections.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ad-tracker/youtube-clone-state/internal/models"
)

var videoIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// Validator validates drafts using struct tags.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the notificationtype and videoid rules registered.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report json field names so messages match what clients send.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for empty tags or nil functions.
	_ = validate.RegisterValidation("notificationtype", func(fl validator.FieldLevel) bool {
		return models.NotificationType(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("videoid", func(fl validator.FieldLevel) bool {
		return IsValidVideoID(fl.Field().String())
	})

	return &Validator{validate: validate}
}

// NotificationDraft validates a draft notification.
func (v *Validator) NotificationDraft(draft *models.NotificationDraft) error {
	return v.check(draft)
}

// CommentDraft validates a draft comment.
func (v *Validator) CommentDraft(draft *models.CommentDraft) error {
	return v.check(draft)
}

// UploadDraft validates a draft upload.
func (v *Validator) UploadDraft(draft *models.UploadDraft) error {
	return v.check(draft)
}

func (v *Validator) check(draft interface{}) error {
	err := v.validate.Struct(draft)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "notificationtype":
		return fmt.Sprintf("%s %q is not a notification type", fe.Field(), fe.Value())
	case "videoid":
		return fmt.Sprintf("invalid video ID format: %v", fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a URL", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// IsValidVideoID reports whether id looks like an 11 character YouTube video id.
func IsValidVideoID(id string) bool {
	return videoIDRegex.MatchString(id)
}
