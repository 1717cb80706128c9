package random

import (
	"crypto/rand"
	"math/big"
)

// Random is the randomness source behind room code generation and song
// draws. Injected so tests can script exact codes and picks.
type Random interface {
	// Intn returns a random int in [0, n); song draws index the catalog with it
	Intn(n int) int

	// String draws length characters from alphabet; room codes come from it
	String(length int, alphabet string) string
}

// CryptoRandom implements Random on crypto/rand. A room code is the only
// credential needed to join a game, so codes must not come from a
// seedable PRNG.
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	bound := big.NewInt(int64(n))
	result, err := rand.Int(rand.Reader, bound)
	if err != nil {
		// crypto/rand.Reader does not fail on supported platforms
		return 0
	}
	return int(result.Int64())
}

// String draws length characters uniformly from alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	result := make([]byte, length)
	for i := range result {
		result[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(result)
}
