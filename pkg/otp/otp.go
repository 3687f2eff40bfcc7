package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
)

const (
	DefaultMin = 1000
	DefaultMax = 9999
)

// Generator produces one-time numeric verification codes.
type Generator interface {
	Generate() (string, error)
}

// RandomGenerator draws codes uniformly from the closed range [min, max].
type RandomGenerator struct {
	source io.Reader
	min    int64
	max    int64
}

// NewRandomGenerator returns a generator backed by crypto/rand.
func NewRandomGenerator() *RandomGenerator {
	g, _ := NewRandomGeneratorFrom(rand.Reader, DefaultMin, DefaultMax)
	return g
}

// NewRandomGeneratorFrom returns a generator reading entropy from source.
func NewRandomGeneratorFrom(source io.Reader, min, max int64) (*RandomGenerator, error) {
	if source == nil {
		return nil, errors.New("nil random source")
	}
	if min < 0 || max < min {
		return nil, fmt.Errorf("invalid code range [%d, %d]", min, max)
	}

	return &RandomGenerator{source: source, min: min, max: max}, nil
}

func (g *RandomGenerator) Generate() (string, error) {
	n, err := rand.Int(g.source, big.NewInt(g.max-g.min+1))
	if err != nil {
		return "", fmt.Errorf("read random source failed: %w", err)
	}

	return strconv.FormatInt(n.Int64()+g.min, 10), nil
}
