package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate into domain errors
const (
	codeUniqueViolation = "23505"
	codeInvalidText     = "22P02" // malformed uuid in a lookup
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

func isInvalidText(err error) bool {
	return pgCode(err) == codeInvalidText
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isMissing reports a lookup that matched nothing, including ids that cannot exist
func isMissing(err error) bool {
	return isNoRows(err) || isInvalidText(err)
}
