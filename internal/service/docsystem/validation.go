package docsystem

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"reqgen/internal/domain"
	"reqgen/internal/domain/models"
)

// toValidationError converts ozzo validation output into a domain.ValidationError
// keyed by wire field names
func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	failures := make(map[string]error, len(verrs))
	for field, ferr := range verrs {
		failures[lowerFirst(field)] = ferr
	}
	return domain.NewFieldValidationError(failures)
}

// lowerFirst maps Go field names (OriginalNote) to wire names (originalNote)
func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// documentTypeRule accepts the known document types.
// Like every ozzo In rule it skips empty values; pair it with Required or NilOrNotEmpty.
func documentTypeRule() validation.Rule {
	allowed := make([]interface{}, len(models.DocumentTypes))
	for i, t := range models.DocumentTypes {
		allowed[i] = t
	}
	return validation.In(allowed...).Error("must be one of brd, srs, sdd, po")
}

// statusRule accepts the three document statuses. Empty values are skipped, see documentTypeRule.
func statusRule() validation.Rule {
	return validation.In(models.StatusPending, models.StatusApproved, models.StatusNeedsChanges).
		Error("must be one of pending, approved, needs_changes")
}
