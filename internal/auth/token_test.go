package auth

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestIssueToken_Shape(t *testing.T) {
	tok, err := IssueToken()
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	// 32 bytes of entropy → 43 chars of unpadded base64url.
	if len(tok) != 43 {
		t.Errorf("token length = %d, want 43", len(tok))
	}
	if strings.ContainsAny(tok, "+/=") {
		t.Errorf("token %q contains characters unsafe for URLs", tok)
	}

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil {
		t.Fatalf("token is not valid base64url: %v", err)
	}
	if len(raw) != tokenBytes {
		t.Errorf("decoded entropy = %d bytes, want %d", len(raw), tokenBytes)
	}
}

func TestIssueToken_Distinct(t *testing.T) {
	seen := make(map[string]struct{}, 1000)

	for i := 0; i < 1000; i++ {
		tok, err := IssueToken()
		if err != nil {
			t.Fatalf("IssueToken() call %d error = %v", i, err)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("IssueToken() produced a duplicate after %d calls: %q", i, tok)
		}
		seen[tok] = struct{}{}
	}
}
