package seal

import (
	"unicode/utf8"

	"github.com/awnumar/memguard"
)

// ClearBytes wipes a byte slice.
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ---- Passphrase Buffer

// Buffer collects the passphrase typed at the card front. Once the card is
// open the buffer can be sealed into a memguard enclave or destroyed.
type Buffer struct {
	enclave *memguard.Enclave
	data    []byte
}

// NewBuffer creates an empty passphrase buffer.
func NewBuffer() *Buffer {
	return &Buffer{data: make([]byte, 0, 128)}
}

// AppendRune adds a typed character.
func (b *Buffer) AppendRune(r rune) {
	b.data = utf8.AppendRune(b.data, r)
}

// Backspace removes the last character, which may span several bytes.
// It returns false on an empty buffer.
func (b *Buffer) Backspace() bool {
	if len(b.data) == 0 {
		return false
	}
	_, size := utf8.DecodeLastRune(b.data)
	tail := b.data[len(b.data)-size:]
	ClearBytes(tail)
	b.data = b.data[:len(b.data)-size]
	return true
}

// Clear wipes and empties the buffer.
func (b *Buffer) Clear() {
	ClearBytes(b.data)
	b.data = b.data[:0]
}

// Len returns the length in bytes.
func (b *Buffer) Len() int { return len(b.data) }

// RuneCount returns the number of typed characters, for the mask.
func (b *Buffer) RuneCount() int { return utf8.RuneCount(b.data) }

// Bytes returns a copy of the contents. The caller should clear it.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Seal moves the contents into an enclave and clears the plain buffer.
func (b *Buffer) Seal() {
	if len(b.data) == 0 {
		return
	}
	b.enclave = memguard.NewEnclave(b.data)
	b.Clear()
}

// Open returns the contents in a locked buffer that the caller must
// Destroy.
func (b *Buffer) Open() (*memguard.LockedBuffer, error) {
	if b.enclave == nil {
		return memguard.NewBufferFromBytes(b.Bytes()), nil
	}
	return b.enclave.Open()
}

// Destroy wipes everything. memguard wipes the enclave's key material when
// it is collected.
func (b *Buffer) Destroy() {
	b.Clear()
	b.enclave = nil
}
