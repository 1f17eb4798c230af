package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := NotFound("node configuration with id x not found")

	assert.True(t, errors.Is(err, ErrorNotFound))
	assert.False(t, errors.Is(err, ErrorDatabase))

	wrapped := fmt.Errorf("activate: %w", err)
	assert.True(t, errors.Is(wrapped, ErrorNotFound))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestError_ProtocolCarriesCodeAndMessage(t *testing.T) {
	var err error = &Error{Kind: KindRemoteProtocol, Code: -28, Message: "Loading block index..."}

	var ce *Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, -28, ce.Code)
	assert.Equal(t, "Loading block index...", ce.Message)
	assert.Equal(t, "rpc error (code -28): Loading block index...", err.Error())
	assert.True(t, errors.Is(err, ErrorRemoteProtocol))
}

func TestDatabase_WrapsPlainAndKeepsClassified(t *testing.T) {
	assert.Nil(t, Database(nil))

	boom := errors.New("disk I/O error")
	err := Database(boom)
	assert.True(t, errors.Is(err, ErrorDatabase))
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, "database error: disk I/O error", err.Error())

	nf := NotFound("gone")
	assert.Same(t, nf, Database(nf))
}

func TestKindOf_Unclassified(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKind_StringCoversAllKinds(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Kinds {
		s := k.String()
		assert.NotContains(t, s, "kind(", "kind %d has no name", int(k))
		assert.False(t, seen[s], "duplicate name %q", s)
		seen[s] = true
	}
	assert.Equal(t, "kind(99)", Kind(99).String())
}
