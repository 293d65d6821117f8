// internal/repository/sqlstore/result.go
package sqlstore

import (
	"database/sql"
	"fmt"

	"cryptoex/internal/util"
)

// requireOneRow turns an UPDATE or DELETE that touched nothing into util.ErrNotFound.
func requireOneRow(result sql.Result, entity string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for %s ID %d: %w", entity, id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected for %s ID %d: %w", entity, id, util.ErrNotFound)
	}
	return nil
}
