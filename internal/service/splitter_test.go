package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIntoChunks(t *testing.T) {
	t.Run("short text stays in one chunk", func(t *testing.T) {
		chunks := SplitIntoChunks("condiciones de calidad del programa", 100)

		require.Len(t, chunks, 1)
		assert.Equal(t, "condiciones de calidad del programa", chunks[0])
	})

	t.Run("splits on the word budget preserving order", func(t *testing.T) {
		words := make([]string, 10)
		for i := range words {
			words[i] = string(rune('a' + i))
		}
		// budget 4 tokens → 3 words per chunk
		chunks := SplitIntoChunks(strings.Join(words, " "), 4)

		require.Len(t, chunks, 4)
		assert.Equal(t, "a b c", chunks[0])
		assert.Equal(t, "d e f", chunks[1])
		assert.Equal(t, "g h i", chunks[2])
		assert.Equal(t, "j", chunks[3])
	})

	t.Run("zero budget falls back to the default", func(t *testing.T) {
		chunks := SplitIntoChunks("texto corto", 0)

		require.Len(t, chunks, 1)
	})

	t.Run("empty text yields no chunks", func(t *testing.T) {
		assert.Nil(t, SplitIntoChunks("", 100))
		assert.Nil(t, SplitIntoChunks("   \n\t", 100))
	})
}
