package trie

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/epistemic-frontier/metamath-logic/internal/symbols"
	"github.com/epistemic-frontier/metamath-logic/internal/wff"
)

func generateRandomSequences(count, maxLength int) []wff.TokenSeq {
	sequences := make([]wff.TokenSeq, count)
	for i := 0; i < count; i++ {
		length := rand.Intn(maxLength) + 1
		sequence := make(wff.TokenSeq, length)
		for j := 0; j < length; j++ {
			sequence[j] = symbols.ID(rand.Intn(26))
		}
		sequences[i] = sequence
	}
	return sequences
}

func BenchmarkInsert(b *testing.B) {
	sizes := []struct {
		name      string
		count     int
		maxLength int
	}{
		{"Small", 100, 5},
		{"Medium", 1000, 10},
		{"Large", 10000, 20},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			sequences := generateRandomSequences(size.count, size.maxLength)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				idx := New()
				for n, s := range sequences {
					idx.Insert(s, fmt.Sprintf("l%d", n))
				}
			}
		})
	}
}

func BenchmarkLookup(b *testing.B) {
	sequences := generateRandomSequences(1000, 10)
	idx := New()
	for n, s := range sequences {
		idx.Insert(s, fmt.Sprintf("l%d", n))
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		idx.Lookup(sequences[i%len(sequences)])
	}
}
