package domain

import (
	"testing"

	"github.com/san-kum/gandalf/internal/particle"
)

func TestSingleDomainReductionsAreIdentity(t *testing.T) {
	var d SingleDomain
	if d.AllreduceMin(3.5) != 3.5 {
		t.Fatal("AllreduceMin should be identity for a single domain")
	}
	if d.AllreduceMax(3.5) != 3.5 {
		t.Fatal("AllreduceMax should be identity for a single domain")
	}
	if d.NumDomains() != 1 || d.Rank() != 0 {
		t.Fatal("SingleDomain must report rank 0 of 1")
	}
}

func TestSingleDomainDecomposeAssignsEveryParticleToRankZero(t *testing.T) {
	store := particle.NewGasStore(2, 4)
	store.Append(particle.Gas{})
	store.Append(particle.Gas{})

	var d SingleDomain
	ranks := d.Decompose(store)
	if len(ranks) != store.Count() {
		t.Fatalf("len(ranks) = %d, want %d", len(ranks), store.Count())
	}
	for _, r := range ranks {
		if r != 0 {
			t.Fatalf("rank = %d, want 0", r)
		}
	}
}
