//go:build ignore
// +build ignore

package main

/*
This file is not meant to be compiled.

The db package is not generated: db.go is written by hand against
database/sql, and this repository holds no sqlc configuration or query
files. The schema it reads and writes is defined by the goose migrations
in db/migrations (applied with scripts/migrate.go).
*/

func main() {
	// This function is intentionally empty
}
