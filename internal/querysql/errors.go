package querysql

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingBaseSource is returned when a specification declares no sources.
var ErrMissingBaseSource = errors.New("mapping has no sources: the first source is the base table")

// UnknownAliasError is returned when a join introduces an alias that no
// source declares.
type UnknownAliasError struct {
	Alias string
	Join  int // index into joins
}

func (e *UnknownAliasError) Error() string {
	return fmt.Sprintf("joins[%d]: alias %q not found in sources", e.Join, e.Alias)
}

// DuplicateAliasError is returned in strict mode when two sources share an
// alias.
type DuplicateAliasError struct {
	Alias  string
	First  int
	Second int
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("sources[%d]: alias %q already declared by sources[%d]", e.Second, e.Alias, e.First)
}

// AmbiguousJoinError is returned in strict mode when a join's conditions
// reference more than one alias that is not yet attached.
type AmbiguousJoinError struct {
	Join    int
	Aliases []string
}

func (e *AmbiguousJoinError) Error() string {
	return fmt.Sprintf("joins[%d]: introduces %d new aliases (%s); a join may introduce only one",
		e.Join, len(e.Aliases), strings.Join(e.Aliases, ", "))
}
