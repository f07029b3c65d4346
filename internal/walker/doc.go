// Package walker enumerates the source files to review under a root
// directory.
//
// [Walk] returns a lazy iterator. Selection is a plain suffix match on the
// file name; optional doublestar exclude patterns prune directories and skip
// files. Breaking out of the range loop stops the walk.
package walker
