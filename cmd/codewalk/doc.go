// Codewalk is an interactive CLI that reviews a source tree one file at a
// time with an OpenAI-compatible model.
//
// It walks the root directory, sends every file whose name ends with one of
// the configured extensions to the model with a code-reviewer prompt, prints
// the review, and asks whether to continue. Any answer other than "y" stops
// the walk.
//
// Usage:
//
//	codewalk                          # review the current directory
//	codewalk ./service --ext .go      # only Go files under ./service
//	codewalk --model gpt-4o --temperature 0
//	codewalk --exclude 'vendor/**' --render
//
// The API key is read from OPENAI_API_KEY.
package main
