package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealAndOpen(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	sealed, err := Seal([]byte(`{"id":1,"role":"user"}`), key)
	require.NoError(t, err)

	opened, err := Open(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"role":"user"}`, string(opened))
}

func TestOpen_WrongKey(t *testing.T) {
	key, _ := GenerateKey()
	other, _ := GenerateKey()

	sealed, err := Seal([]byte("payload"), key)
	require.NoError(t, err)

	_, err = Open(sealed, other)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestOpen_Tampered(t *testing.T) {
	key, _ := GenerateKey()

	sealed, err := Seal([]byte("payload"), key)
	require.NoError(t, err)

	tampered := []byte(sealed)
	tampered[len(tampered)-1] ^= 0x01
	_, err = Open(string(tampered), key)
	assert.Error(t, err)
}

func TestSeal_BadKeySize(t *testing.T) {
	_, err := Seal([]byte("x"), []byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	_, err = Open("x", []byte("short"))
	assert.ErrorIs(t, err, ErrInvalidKeySize)
}
