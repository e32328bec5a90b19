package seal

import (
	"fmt"
	"hash"

	"github.com/multiformats/go-multihash"
	mhreg "github.com/multiformats/go-multihash/core"
	_ "github.com/multiformats/go-multihash/register/sha3"
)

// AlgorithmID names the digest used for content hashes and the root chain.
// Changing the hash function requires changing this identifier.
const AlgorithmID = "SHA3-256"

// algorithmCode is the multihash code behind AlgorithmID.
const algorithmCode = multihash.SHA3_256

// newHasher returns a fresh hash state for AlgorithmID.
func newHasher() hash.Hash {
	h, err := mhreg.GetHasher(algorithmCode)
	if err != nil {
		// registered by the blank sha3 import above
		panic(fmt.Sprintf("multihash %s unavailable: %v", multihash.Codes[algorithmCode], err))
	}
	return h
}

// DigestSize is the byte length of one AlgorithmID digest.
func DigestSize() int {
	return newHasher().Size()
}
