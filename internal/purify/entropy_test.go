package purify

import (
	"math"
	"math/rand"
	"testing"
)

func TestEntropyBounds(t *testing.T) {
	if got := Entropy(nil); got != 0 {
		t.Errorf("Entropy(nil) = %v, want 0", got)
	}

	same := make([]byte, 1024)
	for i := range same {
		same[i] = 0x5a
	}
	if got := Entropy(same); got != 0 {
		t.Errorf("Entropy(constant) = %v, want 0", got)
	}

	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	if got := Entropy(all); math.Abs(got-8) > 1e-12 {
		t.Errorf("Entropy(0..255) = %v, want 8", got)
	}

	if got := Entropy([]byte{0, 1, 0, 1}); math.Abs(got-1) > 1e-12 {
		t.Errorf("Entropy(two symbols) = %v, want 1", got)
	}
}

func TestEntropyPermutationInvariant(t *testing.T) {
	data := make([]byte, 2048)
	for i := range data {
		data[i] = byte(i % 37)
	}
	want := Entropy(data)

	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 5; round++ {
		rng.Shuffle(len(data), func(i, j int) { data[i], data[j] = data[j], data[i] })
		if got := Entropy(data); math.Abs(got-want) > 1e-12 {
			t.Fatalf("round %d: Entropy = %v, want %v", round, got, want)
		}
	}
}
