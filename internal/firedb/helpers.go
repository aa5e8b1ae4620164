package firedb

import (
	"database/sql"
	"errors"
)

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

// rollbackWithError is deferred around explicit transactions. After a
// successful commit the rollback reports sql.ErrTxDone, which is not a
// failure.
func rollbackWithError(tx *sql.Tx, err *error) {
	if rErr := tx.Rollback(); rErr != nil && !errors.Is(rErr, sql.ErrTxDone) && *err == nil {
		*err = rErr
	}
}
