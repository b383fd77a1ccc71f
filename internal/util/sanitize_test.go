package util

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		require.Equal(t, "Maria Silva", CleanText("  Maria Silva \n", 0))
	})

	t.Run("strips control and zero-width characters", func(t *testing.T) {
		require.Equal(t, "JoãoSouza", CleanText("Jo\u0000ão\u200BSouza", 0))
	})

	t.Run("keeps line breaks inside text", func(t *testing.T) {
		require.Equal(t, "linha 1\nlinha 2", CleanText("linha 1\nlinha 2", 0))
	})

	t.Run("truncates by runes", func(t *testing.T) {
		actual := CleanText("ããããã", 3)
		require.Equal(t, "ããã", actual)
		require.True(t, utf8.ValidString(actual))
	})
}

func TestCleanOptional(t *testing.T) {
	t.Parallel()

	require.Nil(t, CleanOptional(nil, 10))

	blank := "   "
	require.Nil(t, CleanOptional(&blank, 10))

	value := " Centro "
	actual := CleanOptional(&value, 10)
	require.NotNil(t, actual)
	require.Equal(t, "Centro", *actual)
}
