package utils

import "testing"

func TestGenerateSecureOTP(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		otp, err := GenerateSecureOTP()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("OTP %q should be 6 characters", otp)
		}
		seen[otp] = true
	}
	if len(seen) < 15 {
		t.Fatalf("too many duplicate OTPs: %d unique of 20", len(seen))
	}
}
