package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	assert.NotContains(t, key, "=")

	sealed, err := Seal([]byte("hunter22"), key)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "hunter22")

	plain, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, "hunter22", string(plain))
}

func TestOpenRejectsWrongKeyAndTampering(t *testing.T) {
	sealed, err := Seal([]byte("hunter22"), "right")
	require.NoError(t, err)

	_, err = Open(sealed, "wrong")
	assert.ErrorIs(t, err, ErrOpen)

	sealed[len(sealed)-1] ^= 0xff
	_, err = Open(sealed, "right")
	assert.ErrorIs(t, err, ErrOpen)

	_, err = Open([]byte("short"), "right")
	assert.ErrorIs(t, err, ErrOpen)
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, ".")
}

func TestGeneratePassword(t *testing.T) {
	tests := []struct {
		name    string
		opts    PasswordOptions
		digits  bool
		symbols bool
	}{
		{"letters only", PasswordOptions{Size: 16}, false, false},
		{"numbers", PasswordOptions{Size: 8, Numbers: true}, true, false},
		{"everything", PasswordOptions{Size: 128, Numbers: true, Symbols: true}, true, true},
		{"minimum with all classes", PasswordOptions{Size: 4, Numbers: true, Symbols: true}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pw, err := GeneratePassword(tt.opts)
			require.NoError(t, err)
			assert.Len(t, pw, tt.opts.Size)
			assert.Equal(t, tt.digits, strings.ContainsAny(pw, digitChars))
			assert.Equal(t, tt.symbols, strings.ContainsAny(pw, symbolChars))
			assert.True(t, strings.ContainsAny(pw, lowerChars))
			assert.True(t, strings.ContainsAny(pw, upperChars))
		})
	}
}

func TestGeneratePasswordTooShort(t *testing.T) {
	_, err := GeneratePassword(PasswordOptions{Size: 3, Numbers: true, Symbols: true})
	assert.ErrorIs(t, err, ErrPasswordSize)
}
