package storage

import (
	"context"
	"strings"
	"testing"
)

type fakeRepo struct{ Repository }

func TestRegisterAndNew(t *testing.T) {
	Register("fake", func(ctx context.Context, cfg Config) (Repository, error) {
		return fakeRepo{}, nil
	})

	repo, err := New(context.Background(), Config{Kind: "fake", DSN: "x"})
	if err != nil {
		t.Fatalf("New(fake): %v", err)
	}
	if _, ok := repo.(fakeRepo); !ok {
		t.Fatalf("New(fake) = %T, want fakeRepo", repo)
	}

	found := false
	for _, k := range Kinds() {
		if k == "fake" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Kinds() = %v, want to contain fake", Kinds())
	}
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(context.Background(), Config{Kind: "no-such-backend"})
	if err == nil || !strings.Contains(err.Error(), "unknown kind") {
		t.Fatalf("New(unknown) err = %v, want unknown kind error", err)
	}
}
