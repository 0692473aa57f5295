package utils

import (
	"strings"
	"testing"
)

func TestGenerateReferralCodeFormat(t *testing.T) {
	cases := []struct {
		generate func() (string, error)
		prefix   string
	}{
		{GenerateCustomerReferralCode, "CUS-"},
		{GenerateProviderReferralCode, "PRV-"},
	}

	for _, tc := range cases {
		code, err := tc.generate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(code, tc.prefix) {
			t.Fatalf("code %q missing prefix %q", code, tc.prefix)
		}
		suffix := strings.TrimPrefix(code, tc.prefix)
		if len(suffix) != 6 {
			t.Fatalf("code %q suffix should be 6 characters", code)
		}
		for _, r := range suffix {
			if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
				t.Fatalf("code %q contains non-alphanumeric %q", code, r)
			}
		}
	}
}

func TestGenerateReferralCodesDiffer(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateCustomerReferralCode()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen[code] = true
	}
	// Collisions across 50 draws of a 6-char alphanumeric space would
	// point at a broken random source
	if len(seen) < 45 {
		t.Fatalf("too many duplicate codes: %d unique of 50", len(seen))
	}
}
