package cli

import (
	"errors"

	"github.com/jonathan2951/mapping-specs/internal/loader"
	"github.com/jonathan2951/mapping-specs/internal/querysql"
)

// Error codes owned by the CLI. Load errors (E0xx) come from the loader
// package and validation diagnostics (E2xx) from the mapping package.
const (
	ErrCodeWriteFailed = "E007" // File write error

	ErrCodeUnknownAlias   = "E301" // Join introduces an alias no source declares
	ErrCodeNoBaseSource   = "E302" // Mapping has no sources
	ErrCodeDuplicateAlias = "E303" // Strict: alias declared twice
	ErrCodeAmbiguousJoin  = "E304" // Strict: join introduces several aliases

	ErrCodeNoJournal     = "E310" // Journal path not configured
	ErrCodeJournalFailed = "E311" // Journal could not be opened or written
)

// errorCode maps a loader or compiler error to its CLI code and message.
func errorCode(err error) (string, string) {
	var loadErr *loader.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}

	var unknown *querysql.UnknownAliasError
	var dup *querysql.DuplicateAliasError
	var ambiguous *querysql.AmbiguousJoinError
	switch {
	case errors.As(err, &unknown):
		return ErrCodeUnknownAlias, err.Error()
	case errors.Is(err, querysql.ErrMissingBaseSource):
		return ErrCodeNoBaseSource, err.Error()
	case errors.As(err, &dup):
		return ErrCodeDuplicateAlias, err.Error()
	case errors.As(err, &ambiguous):
		return ErrCodeAmbiguousJoin, err.Error()
	}
	return loader.ErrCodeGeneric, err.Error()
}
