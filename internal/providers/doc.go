// Package providers implements the ChatCompleter interface used to obtain a
// review from an LLM.
//
// The only implementation is [OpenAI], built on the go-openai client. It
// accepts any OpenAI-compatible base URL, so local servers such as Ollama or
// LM Studio work as drop-in replacements. Credentials are passed to the
// constructor; this package never reads the process environment.
//
// Calls are made once. Authentication and rate-limit failures are reported as
// typed errors ([IsAuthError], [IsRateLimitError]) so the CLI can choose an
// exit code, but nothing is retried.
package providers
