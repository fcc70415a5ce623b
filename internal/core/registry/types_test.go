package registry

import (
	"errors"
	"strings"
	"testing"
)

func TestParseHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:  "valid 32-byte hex",
			input: strings.Repeat("ab", 32),
		},
		{
			name:    "too short",
			input:   strings.Repeat("ab", 16),
			wantErr: ErrInvalidHash,
		},
		{
			name:    "too long",
			input:   strings.Repeat("ab", 33),
			wantErr: ErrInvalidHash,
		},
		{
			name:    "not hex",
			input:   strings.Repeat("zz", 32),
			wantErr: nil, // decode error, not ErrInvalidHash
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ParseHash(tt.input)
			if tt.wantErr == nil && tt.name == "valid 32-byte hex" {
				if err != nil {
					t.Fatalf("ParseHash() = %v, want nil", err)
				}
				if h.String() != tt.input {
					t.Errorf("round trip = %s, want %s", h.String(), tt.input)
				}
				return
			}
			if err == nil {
				t.Fatal("ParseHash() = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseHash() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestHashFromBytes(t *testing.T) {
	raw := make([]byte, 32)
	raw[0] = 0x01
	raw[31] = 0xff

	h, err := HashFromBytes(raw)
	if err != nil {
		t.Fatalf("HashFromBytes() = %v, want nil", err)
	}
	if h[0] != 0x01 || h[31] != 0xff {
		t.Errorf("hash bytes not copied verbatim")
	}

	if _, err := HashFromBytes(raw[:31]); !errors.Is(err, ErrInvalidHash) {
		t.Errorf("short input = %v, want ErrInvalidHash", err)
	}
}
