package publish

import "strings"

// Outcome is the classified result of a portal submission.
type Outcome string

const (
	// OutcomeSuccess means the portal confirmed the submission.
	OutcomeSuccess Outcome = "success"
	// OutcomeFailed means the portal reported an error.
	OutcomeFailed Outcome = "failed"
	// OutcomeUnconfirmed means the page showed neither a success nor
	// a failure indicator. The submission may still have gone
	// through; the operator must verify in the portal.
	OutcomeUnconfirmed Outcome = "unconfirmed"
)

// successFragments confirm a submission when any appears in the
// post-submit page text.
var successFragments = []string{
	"Success",
	"Published",
	"Submitted",
	"Book published successfully",
	"Your book has been submitted",
}

// failureFragments indicate the portal rejected the submission.
var failureFragments = []string{
	"Error",
	"Failed",
	"Please fix",
	"Required field",
}

// Classify maps the post-submit page text to an outcome. Success
// indicators are checked before failure indicators; pages matching
// neither are unconfirmed rather than assumed successful.
func Classify(pageText string) Outcome {
	for _, f := range successFragments {
		if strings.Contains(pageText, f) {
			return OutcomeSuccess
		}
	}
	for _, f := range failureFragments {
		if strings.Contains(pageText, f) {
			return OutcomeFailed
		}
	}
	return OutcomeUnconfirmed
}

// FailureDetail extracts the line around the first failure indicator
// for error reporting. Returns an empty string when none is present.
func FailureDetail(pageText string) string {
	for _, f := range failureFragments {
		idx := strings.Index(pageText, f)
		if idx < 0 {
			continue
		}
		line := pageText[idx:]
		if nl := strings.IndexByte(line, '\n'); nl >= 0 {
			line = line[:nl]
		}
		return strings.TrimSpace(line)
	}
	return ""
}
