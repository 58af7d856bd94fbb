package postgresql

import (
	"errors"

	"github.com/cmlabs-hris/payroll-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// isMissing treats an id that is not a valid uuid like an unknown one.
func isMissing(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || database.IsInvalidTextRepresentation(err)
}
