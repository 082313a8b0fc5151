package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{name: "valid", size: 1000, overlap: 200},
		{name: "zero overlap", size: 100, overlap: 0},
		{name: "zero size", size: 0, overlap: 0, wantErr: true},
		{name: "negative size", size: -1, overlap: 0, wantErr: true},
		{name: "negative overlap", size: 100, overlap: -1, wantErr: true},
		{name: "overlap equals size", size: 100, overlap: 100, wantErr: true},
		{name: "overlap exceeds size", size: 100, overlap: 150, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.size, tt.overlap)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size, c.Size())
			assert.Equal(t, tt.overlap, c.Overlap())
		})
	}
}

func TestNewOverlapErrorIsTyped(t *testing.T) {
	_, err := New(100, 100)
	require.ErrorIs(t, err, ErrOverlapTooLarge)
}

func TestSplitEmptyInput(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	assert.Nil(t, c.Split(""))
	assert.Nil(t, c.Split("   \n\t  "))
}

func TestSplitShortText(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	text := "a short document"
	chunks := c.Split(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplitExactWindow(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	text := strings.Repeat("x", 100)
	chunks := c.Split(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplitOneRuneOverWindow(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	text := strings.Repeat("x", 101)
	chunks := c.Split(text)
	require.Len(t, chunks, 2)
	assert.Len(t, chunks[0], 100)
	// Second window starts at the step boundary and runs to the end.
	assert.Equal(t, text[80:], chunks[1])
}

func TestSplitWindowMath(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	text := deterministicText(2500)
	chunks := c.Split(text)
	require.Len(t, chunks, 3)

	assert.Equal(t, text[0:1000], chunks[0])
	assert.Equal(t, text[800:1800], chunks[1])
	assert.Equal(t, text[1600:], chunks[2])
	assert.Len(t, chunks[2], 900)
}

func TestSplitConsecutiveChunksOverlap(t *testing.T) {
	c, err := New(300, 60)
	require.NoError(t, err)

	text := deterministicText(2000)
	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-60:]
		assert.True(t, strings.HasPrefix(chunks[i], tail),
			"chunk %d does not start with the previous chunk's tail", i)
	}
}

// TestSplitCoversAllText verifies no byte of the input is dropped:
// stitching the chunks back together with the overlap removed
// reproduces the original text.
func TestSplitCoversAllText(t *testing.T) {
	for _, n := range []int{1, 99, 100, 101, 350, 999, 1000, 1001, 4321} {
		c, err := New(100, 25)
		require.NoError(t, err)

		text := deterministicText(n)
		chunks := c.Split(text)
		require.NotEmpty(t, chunks)

		rebuilt := chunks[0]
		for i := 1; i < len(chunks); i++ {
			rebuilt += chunks[i][25:]
		}
		assert.Equal(t, text, rebuilt, "length %d", n)
	}
}

// Windows are measured in runes: a multi-byte rune must never be cut
// in half at a window boundary.
func TestSplitMultibyteWindowMath(t *testing.T) {
	c, err := New(11, 2)
	require.NoError(t, err)

	text := strings.Repeat("é", 20)
	chunks := c.Split(text)
	require.Len(t, chunks, 2)

	for i, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk), "chunk %d is not valid UTF-8: %q", i, chunk)
		assert.Equal(t, 11, utf8.RuneCountInString(chunk), "chunk %d", i)
	}
	assert.Equal(t, strings.Repeat("é", 11), chunks[0])
	assert.Equal(t, strings.Repeat("é", 11), chunks[1])
}

func TestSplitMultibyteCoversAllText(t *testing.T) {
	c, err := New(7, 3)
	require.NoError(t, err)

	// Mixed rune widths: 1-byte ASCII, 2-byte accents, 3-byte CJK.
	text := strings.Repeat("aé漢x語é", 17)
	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)

	rebuilt := chunks[0]
	for i := 1; i < len(chunks); i++ {
		assert.True(t, utf8.ValidString(chunks[i]), "chunk %d", i)
		rebuilt += string([]rune(chunks[i])[3:])
	}
	assert.Equal(t, text, rebuilt)
}

func TestSplitDeterministic(t *testing.T) {
	c, err := New(128, 32)
	require.NoError(t, err)

	text := deterministicText(1500)
	first := c.Split(text)
	second := c.Split(text)
	assert.Equal(t, first, second)
}

// deterministicText builds a non-repeating ASCII string so window
// boundaries are verifiable by content, not just length.
func deterministicText(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('a' + (i*7+i/26)%26))
	}
	return b.String()
}
