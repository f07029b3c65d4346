// Package redact scrubs likely secrets from file content before it is sent
// to a remote model.
//
// Detection uses regex heuristics: API keys, JWTs, private key headers, AWS
// keys, bearer tokens, database connection strings, and provider-specific
// tokens (Anthropic, OpenAI, GitHub, Slack). Redaction is opt-in; callers
// decide whether to apply it.
package redact
