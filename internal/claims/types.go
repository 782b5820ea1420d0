package claims

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Iron-Ham/accordo/internal/board"
)

// BlockedError reports a claim rejected because some of the requested
// resources are leased to other owners. It carries exactly the
// requested resources that conflicted and the chains holding them, so
// a caller can decide whether to wait, negotiate, or pick different
// resources. A blocked claim acquires nothing.
type BlockedError struct {
	// Conflicting is the intersection of the requested resources with
	// resources held by other owners, in request order, normalized.
	Conflicting []string

	// Blocking is the distinct set of chains holding the conflicting
	// resources.
	Blocking []board.ClaimChain
}

// Error implements the error interface.
func (e *BlockedError) Error() string {
	owners := make([]string, 0, len(e.Blocking))
	seen := make(map[string]bool)
	for _, c := range e.Blocking {
		if !seen[c.Owner] {
			seen[c.Owner] = true
			owners = append(owners, c.Owner)
		}
	}
	return fmt.Sprintf("resources blocked: %s (held by %s)",
		strings.Join(e.Conflicting, ", "), strings.Join(owners, ", "))
}

// IsBlocked reports whether err is a BlockedError and returns it.
func IsBlocked(err error) (*BlockedError, bool) {
	var blocked *BlockedError
	if errors.As(err, &blocked) {
		return blocked, true
	}
	return nil, false
}
