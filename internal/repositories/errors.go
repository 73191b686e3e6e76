package repositories

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate is returned when an insert collides with a uniqueness constraint.
var ErrDuplicate = errors.New("record already exists")

const uniqueViolation = "23505"

func translateInsertErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}
