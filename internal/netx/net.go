// Package netx has small HTTP helpers.
package netx

import "io"

// MaxDrainBytes bounds how much DrainAndClose reads before giving up on
// connection reuse.
const MaxDrainBytes = 64 << 10

// DrainAndClose reads up to MaxDrainBytes of rc and closes it so the
// transport can reuse the underlying connection. Longer bodies are closed
// unread.
func DrainAndClose(rc io.ReadCloser) error {
	if rc == nil {
		return nil
	}
	_, _ = io.CopyN(io.Discard, rc, MaxDrainBytes)
	return rc.Close()
}
