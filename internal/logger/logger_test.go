package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_FromContext(t *testing.T) {
	t.Run("returns logger stored in context", func(t *testing.T) {
		l := New()
		ctx := context.WithValue(context.Background(), ContextKey, l) //nolint:staticcheck
		require.Same(t, l, FromContext(ctx))
	})

	t.Run("falls back to a fresh logger", func(t *testing.T) {
		require.NotNil(t, FromContext(context.Background()))
	})
}
