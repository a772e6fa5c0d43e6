package seal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_Backspace(t *testing.T) {
	t.Run("empty buffer", func(t *testing.T) {
		b := NewBuffer()
		assert.False(t, b.Backspace())
		assert.Equal(t, 0, b.Len())
	})

	t.Run("ascii", func(t *testing.T) {
		b := NewBuffer()
		b.AppendRune('a')
		b.AppendRune('b')
		assert.True(t, b.Backspace())
		assert.Equal(t, "a", string(b.Bytes()))
	})

	t.Run("multi-byte rune is removed whole", func(t *testing.T) {
		b := NewBuffer()
		b.AppendRune('x')
		b.AppendRune('🎂')
		assert.Equal(t, 5, b.Len())
		assert.Equal(t, 2, b.RuneCount())

		assert.True(t, b.Backspace())
		assert.Equal(t, "x", string(b.Bytes()))
		assert.True(t, b.Backspace())
		assert.False(t, b.Backspace())
	})
}

func TestBuffer_Clear(t *testing.T) {
	b := NewBuffer()
	for _, r := range "secret" {
		b.AppendRune(r)
	}
	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 0, b.RuneCount())
}

func TestBuffer_SealAndOpen(t *testing.T) {
	b := NewBuffer()
	for _, r := range "wish" {
		b.AppendRune(r)
	}

	b.Seal()
	assert.Equal(t, 0, b.Len(), "plain buffer is wiped after Seal")

	lb, err := b.Open()
	require.NoError(t, err)
	defer lb.Destroy()
	assert.Equal(t, "wish", string(lb.Bytes()))

	b.Destroy()
}

func TestBuffer_OpenUnsealed(t *testing.T) {
	b := NewBuffer()
	b.AppendRune('k')

	lb, err := b.Open()
	require.NoError(t, err)
	defer lb.Destroy()
	assert.Equal(t, "k", string(lb.Bytes()))
	assert.Equal(t, 1, b.Len(), "opening an unsealed buffer leaves it intact")
}

func TestClearBytes(t *testing.T) {
	data := []byte{1, 2, 3}
	ClearBytes(data)
	assert.Equal(t, []byte{0, 0, 0}, data)
}
