// Package review sends source files to an LLM one at a time and drives the
// interactive loop around it.
//
// [Invoker] reads a file with lenient decoding, builds the two-message
// prompt (see [Messages]), calls a [providers.ChatCompleter], and prints the
// trimmed reply through an [output.Writer]. [Session] walks a sequence of
// paths, asking after each review whether to continue; any answer other
// than "y" ends the run.
package review
