// Package allowlist loads the optional set of headwords that may stay enabled
// after extraction. A nil set means no allow-list; a non-nil set, even an
// empty one, restricts enabled entries to its keys.
package allowlist

import "context"

// Source yields an allow-list keyed by NFC-normalized headword.
type Source interface {
	Load(ctx context.Context) (map[string]bool, error)
}
