// Package all registers every storage backend with the storage factory.
// The CLI blank-imports this package so config alone selects the backend.
package all

import (
	_ "h1bstats/internal/storage/postgres"
	_ "h1bstats/internal/storage/sqlite"
)
