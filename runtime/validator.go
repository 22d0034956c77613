package runtime

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"lingua-room/domain"
	"lingua-room/errors"
)

var validate = validator.New()

func validateDraft(draft domain.Draft) error {
	if err := validate.Struct(draft); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidDraft, err)
	}
	return nil
}

func validateLanguage(language string) error {
	if err := validate.Var(language, "required,bcp47_language_tag"); err != nil {
		return fmt.Errorf("%w: invalid language code %q", errors.ErrInvalidDraft, language)
	}
	return nil
}
