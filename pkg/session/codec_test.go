package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func TestNewSignedCodec(t *testing.T) {
	t.Parallel()

	t.Run("requires at least one secret", func(t *testing.T) {
		t.Parallel()

		_, err := session.NewSignedCodec()
		assert.ErrorIs(t, err, session.ErrNoSecret)

		_, err = session.NewSignedCodec("", "")
		assert.ErrorIs(t, err, session.ErrNoSecret)
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		codec, err := session.NewSignedCodec("super-secret-key")
		require.NoError(t, err)

		encoded := codec.Encode("session-id-1")
		assert.NotEqual(t, "session-id-1", encoded)

		id, err := codec.Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, "session-id-1", id)
	})

	t.Run("rejects tampered value", func(t *testing.T) {
		t.Parallel()

		codec, err := session.NewSignedCodec("super-secret-key")
		require.NoError(t, err)

		encoded := codec.Encode("session-id-1")
		tampered := "other-id" + encoded[len("session-id-1"):]

		_, err = codec.Decode(tampered)
		assert.ErrorIs(t, err, session.ErrInvalidSignature)
	})

	t.Run("rejects unsigned value", func(t *testing.T) {
		t.Parallel()

		codec, err := session.NewSignedCodec("super-secret-key")
		require.NoError(t, err)

		_, err = codec.Decode("bare-session-id")
		assert.ErrorIs(t, err, session.ErrInvalidSignature)
	})

	t.Run("verifies against rotated secrets", func(t *testing.T) {
		t.Parallel()

		old, err := session.NewSignedCodec("old-secret")
		require.NoError(t, err)
		rotated, err := session.NewSignedCodec("new-secret", "old-secret")
		require.NoError(t, err)

		encoded := old.Encode("sid-42")

		id, err := rotated.Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, "sid-42", id)
	})

	t.Run("different secrets do not verify", func(t *testing.T) {
		t.Parallel()

		a, err := session.NewSignedCodec("secret-a")
		require.NoError(t, err)
		b, err := session.NewSignedCodec("secret-b")
		require.NoError(t, err)

		_, err = b.Decode(a.Encode("sid"))
		assert.ErrorIs(t, err, session.ErrInvalidSignature)
	})
}
