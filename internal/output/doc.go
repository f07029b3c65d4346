// Package output prints reviews to the terminal.
//
// Two formats are supported:
//   - text:     the review text as returned, framed by 80-dash separators (default)
//   - markdown: the same frame with the review rendered by glamour
//
// Use [GetWriter] to obtain a [Writer] for a format string, then call
// [Writer.Write] with an [io.Writer] and a [Review].
package output
