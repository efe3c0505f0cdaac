package infoschema

import "context"

// Compatibility tables for client tooling. Their contents are fixed and do
// not depend on the catalog or the WHERE clause.

var enginesColumns = []string{"ENGINE", "SUPPORT", "COMMENT", "TRANSACTIONS", "XA", "SAVEPOINTS"}

var characterSetsColumns = []string{
	"CHARACTER_SET_NAME",
	"DEFAULT_COLLATE_NAME",
	"DESCRIPTION",
	"MAXLEN",
}

var collationsColumns = []string{
	"COLLATION_NAME",
	"CHARACTER_SET_NAME",
	"ID",
	"IS_DEFAULT",
	"IS_COMPILED",
	"SORTLEN",
	"PAD_ATTRIBUTE",
}

func fillEngines(_ context.Context, _ *Request, out *ResultSet) error {
	out.add([]any{
		"InnoDB",
		"DEFAULT",
		"Supports transactions, row-level locking, and foreign keys",
		"YES",
		"YES",
		"YES",
	})
	return nil
}

func fillCharacterSets(_ context.Context, _ *Request, out *ResultSet) error {
	out.add([]any{"utf8", "utf8_general_ci", "UTF-8 Unicode", 3})
	out.add([]any{"latin1", "latin1_swedish_ci", "cp1252 West European", 1})
	out.add([]any{"utf8mb4", "utf8mb4_general_ci", "UTF-8 Unicode", 4})
	return nil
}

func fillCollations(_ context.Context, _ *Request, out *ResultSet) error {
	out.add([]any{"utf8_general_ci", "utf8", 33, "Yes", "Yes", 1, "PAD SPACE"})
	out.add([]any{"latin1_swedish_ci", "latin1", 8, "Yes", "Yes", 1, "PAD SPACE"})
	return nil
}
