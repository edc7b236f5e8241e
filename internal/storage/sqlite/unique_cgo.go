//go:build cgo

package sqlite

import (
	"errors"
	"strings"

	mattn "github.com/mattn/go-sqlite3"
)

// isMattnUniqueEmail classifies errors from the cgo "sqlite3" driver.
// mattn.Error only exists when cgo is enabled.
func isMattnUniqueEmail(err error) bool {
	var mErr mattn.Error
	if !errors.As(err, &mErr) {
		return false
	}
	return mErr.ExtendedCode == mattn.ErrConstraintUnique &&
		strings.Contains(mErr.Error(), emailConstraint)
}
