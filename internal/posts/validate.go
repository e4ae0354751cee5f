package posts

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// MaxTags is the most tags a post may carry.
const MaxTags = 10

// notBlank rejects strings that are empty once trimmed. Nil pointers pass,
// so it also serves optional patch fields.
func notBlank(code string) validation.Rule {
	return validation.By(func(value any) error {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case *string:
			if v == nil {
				return nil
			}
			s = *v
		}
		if strings.TrimSpace(s) == "" {
			return errors.New(code)
		}
		return nil
	})
}

func validateDraft(d *Draft) error {
	err := validation.ValidateStruct(d,
		validation.Field(&d.Title, notBlank("title_required")),
		validation.Field(&d.ContentMD, notBlank("content_required")),
		validation.Field(&d.Tags, validation.Length(0, MaxTags).Error("too_many_tags")),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func validatePatch(p *Patch) error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.ID, validation.Required.Error("id_required")),
		validation.Field(&p.Title, notBlank("title_required")),
		validation.Field(&p.ContentMD, notBlank("content_required")),
		validation.Field(&p.Tags, validation.Length(0, MaxTags).Error("too_many_tags")),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}
