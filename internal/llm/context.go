package llm

import "context"

// UnknownPurpose labels requests made without WithPurpose.
const UnknownPurpose = "unknown"

type purposeKey struct{}

// WithPurpose tags ctx with the reason for an LLM call (e.g. "boot-nudge").
// The tag becomes the purpose column of the request log. An empty purpose
// leaves ctx untouched.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	if purpose == "" {
		return ctx
	}
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose, or UnknownPurpose.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return UnknownPurpose
}
