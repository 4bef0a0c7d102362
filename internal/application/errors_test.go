package application

import "testing"

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	var empty *ValidationError
	if got := empty.Error(); got != "validation failed" {
		t.Fatalf("nil error message = %q", got)
	}

	vErr := &ValidationError{}
	vErr.add("interval", "must be at least 1")
	vErr.add("frequency", "unknown")

	// Field names are sorted so the message is stable.
	if got := vErr.Error(); got != "validation failed: frequency, interval" {
		t.Fatalf("unexpected message %q", got)
	}
	if !vErr.HasErrors() {
		t.Fatal("expected HasErrors to report true")
	}
}
