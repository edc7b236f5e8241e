//go:build cgo

package sqlite

import "github.com/aanand-mishra/createread/internal/config"

var drivers = []string{config.DriverSQLite3, config.DriverSQLite}
