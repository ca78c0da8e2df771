package infrastructure

import (
	"context"
	"errors"
	"testing"
)

func TestParseAuthTokens(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]string
		wantErr bool
	}{
		{
			name:  "empty",
			input: "",
			want:  map[string]string{},
		},
		{
			name:  "single",
			input: "secret:alice",
			want:  map[string]string{"secret": "alice"},
		},
		{
			name:  "multiple with spaces",
			input: " s1:alice , s2:bob ,",
			want:  map[string]string{"s1": "alice", "s2": "bob"},
		},
		{
			name:    "missing separator",
			input:   "secret",
			wantErr: true,
		},
		{
			name:    "missing user",
			input:   "secret:",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAuthTokens(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d tokens, got %d", len(tt.want), len(got))
			}
			for token, user := range tt.want {
				if got[token] != user {
					t.Errorf("expected token %q -> %q, got %q", token, user, got[token])
				}
			}
		})
	}
}

func TestTokenAuthProvider_Authenticate(t *testing.T) {
	provider := NewTokenAuthProvider(map[string]string{"secret": "alice"})

	identity, err := provider.Authenticate(context.Background(), "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.UserID != "alice" {
		t.Errorf("expected user alice, got %q", identity.UserID)
	}

	if _, err := provider.Authenticate(context.Background(), "wrong"); !errors.Is(err, ErrUnknownToken) {
		t.Errorf("expected ErrUnknownToken, got %v", err)
	}
}
