//go:build !cgo

package sqlite

// isMattnUniqueEmail always reports false: without cgo the "sqlite3"
// driver cannot open a database, so it never returns a constraint error.
func isMattnUniqueEmail(err error) bool {
	return false
}
