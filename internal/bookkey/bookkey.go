// Package bookkey derives the normalized identity of a book.
//
// Every place in the codebase that needs to decide whether two books are
// "the same book" must go through For; divergent normalization between
// call sites is a correctness bug.
package bookkey

import "strings"

// Key is the case- and whitespace-insensitive identity of a book.
type Key struct {
	Title  string
	Author string
}

// For returns the identity key for a (title, author) pair.
func For(title, author string) Key {
	return Key{
		Title:  strings.ToLower(strings.TrimSpace(title)),
		Author: strings.ToLower(strings.TrimSpace(author)),
	}
}
