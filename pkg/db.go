package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html

// IsRetryableTxError reports errors after which the whole transaction can be retried:
// serialization_failure and deadlock_detected.
func IsRetryableTxError(err error) bool {
	return hasPgCode(err, "40001") || hasPgCode(err, "40P01")
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
