// Package gh wraps the GitHub CLI for pull request operations.
package gh

// PROptions holds the fields used to create or update a pull request
type PROptions struct {
	Title string
	Body  string
	Base  string
	Head  string
}

// Client defines the interface for pull request operations.
// This interface allows for mocking the gh CLI in tests.
type Client interface {
	// PRIsOpen reports whether an open pull request exists for the branch
	PRIsOpen(branch string) (bool, error)

	// PRCreate opens a new pull request
	PRCreate(opts PROptions) error

	// PREdit updates the title and body of the branch's pull request
	PREdit(branch, title, body string) error
}
