package user

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestMakeHash(t *testing.T) {
	hash, err := MakeHash("secret1")
	if err != nil {
		t.Fatalf("MakeHash() failed: %v", err)
	}

	parts := strings.SplitN(hash, ".", 2)
	if len(parts) != 2 {
		t.Fatalf("MakeHash() = %q, want \"key.salt\"", hash)
	}
	if key, err := hex.DecodeString(parts[0]); err != nil || len(key) != keyLength {
		t.Errorf("key = %q, want %d hex-encoded bytes", parts[0], keyLength)
	}
	if salt, err := hex.DecodeString(parts[1]); err != nil || len(salt) != saltSize {
		t.Errorf("salt = %q, want %d hex-encoded bytes", parts[1], saltSize)
	}

	// a fresh salt every time
	hash2, err := MakeHash("secret1")
	if err != nil {
		t.Fatalf("MakeHash() failed: %v", err)
	}
	if hash == hash2 {
		t.Error("MakeHash() produced the same hash twice")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := MakeHash("secret1")
	if err != nil {
		t.Fatalf("MakeHash() failed: %v", err)
	}
	salt := strings.SplitN(hash, ".", 2)[1]

	tests := []struct {
		name     string
		supplied string
		stored   string
		want     bool
	}{
		{name: "correct password", supplied: "secret1", stored: hash, want: true},
		{name: "wrong password", supplied: "secret2", stored: hash},
		{name: "case matters", supplied: "Secret1", stored: hash},
		{name: "stored hash is not the password", supplied: hash, stored: hash},
		{name: "bad key encoding", supplied: "secret1", stored: "nothex." + salt},
		{name: "legacy plaintext match", supplied: "secret1", stored: "secret1", want: true},
		{name: "legacy plaintext mismatch", supplied: "secret1", stored: "secret2"},
		{name: "empty stored", supplied: "secret1", stored: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyPassword(tt.supplied, tt.stored); got != tt.want {
				t.Errorf("VerifyPassword() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUser_SetCheckPassword(t *testing.T) {
	var usr User
	if err := usr.SetPassword("secret1"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	if !usr.CheckPassword("secret1") {
		t.Error("CheckPassword() rejected the set password")
	}
	if usr.CheckPassword("secret2") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}
