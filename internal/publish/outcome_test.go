package publish

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Outcome
	}{
		{"confirmed", "Your book has been submitted for review.", OutcomeSuccess},
		{"published", "Status: Published", OutcomeSuccess},
		{"rejected", "Error: cover image is too small", OutcomeFailed},
		{"validation", "Required field: title", OutcomeFailed},
		{"ambiguous", "Welcome back to your dashboard.", OutcomeUnconfirmed},
		{"empty", "", OutcomeUnconfirmed},
		{"success wins over error text", "Submitted. Previous Error cleared.", OutcomeSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Fatalf("Classify(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestFailureDetail(t *testing.T) {
	text := "Something went wrong.\nError: missing ISBN\nTry again."
	if got := FailureDetail(text); got != "Error: missing ISBN" {
		t.Fatalf("FailureDetail() = %q", got)
	}
	if got := FailureDetail("all fine"); got != "" {
		t.Fatalf("FailureDetail() = %q, want empty", got)
	}
}

func TestExtractISBN(t *testing.T) {
	if got := extractISBN("Your book details\nISBN: 978-1-2345-6789-0\nPrice: 4.99"); got != "978-1-2345-6789-0" {
		t.Fatalf("extractISBN() = %q", got)
	}
	if got := extractISBN("no identifier here"); got != "" {
		t.Fatalf("extractISBN() = %q, want empty", got)
	}
}
