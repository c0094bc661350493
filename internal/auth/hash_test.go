package auth

import "testing"

func TestDeriveIDNormalizesEmail(t *testing.T) {
	variants := []string{
		"alice@asu.edu",
		"Alice@ASU.edu",
		"  alice@asu.edu  ",
		"\tALICE@ASU.EDU\n",
	}
	want := DeriveID(variants[0])
	for _, v := range variants {
		if got := DeriveID(v); got != want {
			t.Fatalf("DeriveID(%q) = %s, want %s", v, got, want)
		}
	}
}

func TestDeriveIDDistinctEmails(t *testing.T) {
	emails := []string{
		"alice@asu.edu",
		"bob@asu.edu",
		"alice@example.com",
		"a@b.co",
		"carol+tag@example.com",
		"carol@example.com",
	}
	seen := make(map[string]string)
	for _, e := range emails {
		id := DeriveID(e)
		if len(id) != idLen {
			t.Fatalf("DeriveID(%q) has length %d, want %d", e, len(id), idLen)
		}
		if prev, ok := seen[id]; ok {
			t.Fatalf("collision: %q and %q both derive %s", prev, e, id)
		}
		seen[id] = e
	}
}

func TestHashCredentialDeterministic(t *testing.T) {
	a := HashCredential("hunter2x", "alice@asu.edu")
	b := HashCredential("hunter2x", "ALICE@asu.edu ")
	if a != b {
		t.Fatalf("same credentials hashed differently: %s vs %s", a, b)
	}
}

func TestHashCredentialSaltedByEmail(t *testing.T) {
	a := HashCredential("hunter2x", "alice@asu.edu")
	b := HashCredential("hunter2x", "bob@asu.edu")
	if a == b {
		t.Fatal("same password for different emails produced the same hash")
	}
}

func TestHashCredentialDifferentPasswords(t *testing.T) {
	a := HashCredential("hunter2x", "alice@asu.edu")
	b := HashCredential("wrong", "alice@asu.edu")
	if a == b {
		t.Fatal("different passwords produced the same hash")
	}
}
