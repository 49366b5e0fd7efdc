package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := DeriveKey(strings.Repeat("0f", 32))
	require.NoError(t, err)
	return key
}

func TestDeriveKey(t *testing.T) {
	_, err := DeriveKey("zz")
	assert.Error(t, err)

	_, err = DeriveKey("abcd")
	assert.Error(t, err)

	key := testKey(t)
	assert.Len(t, key, 32)
}

func TestEncryptDecrypt(t *testing.T) {
	key := testKey(t)

	a, err := Encrypt("12345678950", key)
	require.NoError(t, err)
	b, err := Encrypt("12345678950", key)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "random nonce per encryption")

	plain, err := Decrypt(a, key)
	require.NoError(t, err)
	assert.Equal(t, "12345678950", plain)

	other, _ := DeriveKey(strings.Repeat("1f", 32))
	_, err = Decrypt(a, other)
	assert.Error(t, err)

	_, err = Decrypt("bm9wZQ==", key)
	assert.Error(t, err)
}

func TestLookupHash(t *testing.T) {
	key := testKey(t)

	h1 := LookupHash("12345678950", key)
	assert.Len(t, h1, 64)
	assert.Equal(t, h1, LookupHash("12345678950", key))
	assert.NotEqual(t, h1, LookupHash("10000000146", key))
}
