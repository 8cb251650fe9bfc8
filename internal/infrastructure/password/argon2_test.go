package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// cheap parameters keep the suite fast
var testParams = Params{Memory: 1024, Iterations: 1, Parallelism: 1}

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(testParams)

	encoded, err := h.Hash("secret1")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"))
	assert.NotContains(t, encoded, "secret1")
	assert.True(t, h.Compare(encoded, "secret1"))
	assert.False(t, h.Compare(encoded, "secret2"))
	assert.False(t, h.Compare(encoded, ""))
}

func TestHasher_SaltsEveryHash(t *testing.T) {
	h := NewHasher(testParams)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Compare(a, "same"))
	assert.True(t, h.Compare(b, "same"))
}

func TestHasher_UsesParamsFromHash(t *testing.T) {
	old := NewHasher(Params{Memory: 2048, Iterations: 2, Parallelism: 1})
	encoded, err := old.Hash("pw")
	require.NoError(t, err)

	current := NewHasher(testParams)
	assert.True(t, current.Compare(encoded, "pw"))
}

func TestHasher_VerifiesLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	h := NewHasher(testParams)
	assert.True(t, h.Compare(string(legacy), "pw"))
	assert.False(t, h.Compare(string(legacy), "nope"))
}

func TestHasher_MalformedHashesNeverMatch(t *testing.T) {
	h := NewHasher(testParams)

	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=1024,t=1,p=1$onlysalt",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$aGFzaA",
	} {
		assert.False(t, h.Compare(encoded, "pw"), encoded)
	}
}

func TestNewHasher_Defaults(t *testing.T) {
	h := NewHasher(Params{})
	assert.Equal(t, DefaultParams, h.params)
}
