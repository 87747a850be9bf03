package utils

import "testing"

func TestGenerateRandomToken(t *testing.T) {
	a := GenerateRandomToken(ResetTokenLength)
	b := GenerateRandomToken(ResetTokenLength)

	if len(a) != ResetTokenLength*2 {
		t.Errorf("len = %d, want %d hex chars", len(a), ResetTokenLength*2)
	}
	if a == b {
		t.Error("two tokens came out identical")
	}
}

func TestHashTokenIsDeterministic(t *testing.T) {
	raw := "some-reset-token"
	if HashToken(raw) != HashToken(raw) {
		t.Error("hash not deterministic")
	}
	if HashToken(raw) == raw {
		t.Error("hash equals its input")
	}
	if len(HashToken(raw)) != 64 {
		t.Errorf("len = %d, want 64 hex chars of sha-256", len(HashToken(raw)))
	}
}
