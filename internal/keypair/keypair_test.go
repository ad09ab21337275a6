package keypair

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stellar/go/strkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Secret and address from the Stellar keypair documentation.
const (
	knownSecret  = "SDJHRQF4GCMIIKAAAQ6IHY42X73FQFLHUULAPSKKD4DFDM7UXWWCRHBE"
	knownAddress = "GCZHXL5HXQX5ABDM26LHYRCQZ5OJFHLOPLZX47WEBP3V2PF5AVFK2A5D"
)

func TestPublicKeyFromSecret_KnownVector(t *testing.T) {
	pub, err := PublicKeyFromSecret(knownSecret)
	require.NoError(t, err)
	assert.Equal(t, knownAddress, pub)
}

func TestPublicKeyFromSecret_Invalid(t *testing.T) {
	_, err := PublicKeyFromSecret(knownAddress)
	assert.Error(t, err, "an address is not a secret")

	corrupted := knownSecret[:len(knownSecret)-1] + "A"
	_, err = PublicKeyFromSecret(corrupted)
	assert.Error(t, err)
}

func TestStellarGenerate(t *testing.T) {
	pair, err := NewStellar().Generate()
	require.NoError(t, err)

	assert.Len(t, pair.PublicKey, 56)
	assert.Len(t, pair.Secret, 56)
	assert.True(t, strings.HasPrefix(pair.PublicKey, "G"), "public key %q", pair.PublicKey)
	assert.True(t, strings.HasPrefix(pair.Secret, "S"), "secret must be an S... strkey")

	pub, err := PublicKeyFromSecret(pair.Secret)
	require.NoError(t, err)
	assert.Equal(t, pair.PublicKey, pub)
}

func TestStellarGenerate_Fresh(t *testing.T) {
	gen := NewStellar()
	a, err := gen.Generate()
	require.NoError(t, err)
	b, err := gen.Generate()
	require.NoError(t, err)

	assert.NotEqual(t, a.PublicKey, b.PublicKey)
}

func TestStellarGenerate_Deterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, SeedSize)

	a, err := NewStellarFromReader(bytes.NewReader(seed)).Generate()
	require.NoError(t, err)
	b, err := FromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	raw, err := strkey.Decode(strkey.VersionByteSeed, a.Secret)
	require.NoError(t, err)
	assert.Equal(t, seed, raw[:])
}

func TestStellarGenerate_ShortEntropy(t *testing.T) {
	_, err := NewStellarFromReader(bytes.NewReader([]byte{1, 2, 3})).Generate()
	assert.Error(t, err)
}

func TestFromSeed_WrongLength(t *testing.T) {
	_, err := FromSeed([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidSeed)
}
