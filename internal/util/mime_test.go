package util

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestDetectMIME(t *testing.T) {
	t.Parallel()

	require.Equal(t, "image/png", DetectMIME(pngHeader))
	require.Equal(t, "image/jpeg", DetectMIME([]byte{0xff, 0xd8, 0xff, 0xe0}))
	require.Equal(t, "text/plain; charset=utf-8", DetectMIME([]byte("hello")))
}

func TestIsThumbnailMIME(t *testing.T) {
	t.Parallel()

	require.True(t, IsThumbnailMIME("image/jpeg"))
	require.True(t, IsThumbnailMIME(" IMAGE/WEBP "))
	require.False(t, IsThumbnailMIME("image/svg+xml"))
	require.False(t, IsThumbnailMIME("application/pdf"))
}

func TestExtensionForMIME(t *testing.T) {
	t.Parallel()

	require.Equal(t, ".jpg", ExtensionForMIME("image/jpeg"))
	require.Equal(t, ".webp", ExtensionForMIME("image/webp"))
	require.Equal(t, ".bin", ExtensionForMIME("text/plain"))
}

func TestDecodeDataURL(t *testing.T) {
	t.Parallel()

	encoded := base64.StdEncoding.EncodeToString(pngHeader)

	t.Run("bare base64", func(t *testing.T) {
		data, err := DecodeDataURL(encoded)
		require.NoError(t, err)
		require.Equal(t, pngHeader, data)
	})

	t.Run("data url", func(t *testing.T) {
		data, err := DecodeDataURL("data:image/png;base64," + encoded)
		require.NoError(t, err)
		require.Equal(t, pngHeader, data)
	})

	t.Run("rejects data url without base64 marker", func(t *testing.T) {
		_, err := DecodeDataURL("data:image/png," + encoded)
		require.ErrorIs(t, err, ErrInvalidDataURL)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := DecodeDataURL("***not base64***")
		require.ErrorIs(t, err, ErrInvalidDataURL)
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		_, err := DecodeDataURL("   ")
		require.ErrorIs(t, err, ErrInvalidDataURL)
	})
}
