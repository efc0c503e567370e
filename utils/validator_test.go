package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"author@journal.test",
		"first.last+tag@sub.example.org",
		"u_1%x@example.co",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"no-at-sign",
		"missing@tld",
		"@example.com",
		"user@.com",
		"user@example.c",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, msg := ValidatePassword("short"); ok || msg == "" {
		t.Fatalf("expected a short password to fail with a message, got ok=%v msg=%q", ok, msg)
	}
	if ok, msg := ValidatePassword("longenough"); !ok || msg != "" {
		t.Fatalf("expected an 8+ character password to pass, got ok=%v msg=%q", ok, msg)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello\x00world  "); got != "helloworld" {
		t.Fatalf("expected null bytes and padding stripped, got %q", got)
	}
	if got := SanitizeInput("plain"); got != "plain" {
		t.Fatalf("expected plain input untouched, got %q", got)
	}
}
