package domain

// Fields is a JSON object whose keys have been restricted to the whitelist
// of one outbound operation.
type Fields map[string]any
