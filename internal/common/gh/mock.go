package gh

// MockClient implements Client for testing.
// Each method can be configured with a custom function to control behavior,
// and every invocation is appended to Calls for assertions.
type MockClient struct {
	PRIsOpenFunc func(branch string) (bool, error)
	PRCreateFunc func(opts PROptions) error
	PREditFunc   func(branch, title, body string) error

	// Calls records method names in invocation order
	Calls []string

	// Created and Edited record the arguments of mutating calls
	Created []PROptions
	Edited  []PROptions
}

// NewMockClient creates a new MockClient
func NewMockClient() *MockClient {
	return &MockClient{}
}

// PRIsOpen reports whether an open pull request exists for the branch
func (m *MockClient) PRIsOpen(branch string) (bool, error) {
	m.Calls = append(m.Calls, "PRIsOpen "+branch)
	if m.PRIsOpenFunc != nil {
		return m.PRIsOpenFunc(branch)
	}
	return false, nil
}

// PRCreate opens a new pull request
func (m *MockClient) PRCreate(opts PROptions) error {
	m.Calls = append(m.Calls, "PRCreate "+opts.Head)
	m.Created = append(m.Created, opts)
	if m.PRCreateFunc != nil {
		return m.PRCreateFunc(opts)
	}
	return nil
}

// PREdit updates the title and body of the branch's pull request
func (m *MockClient) PREdit(branch, title, body string) error {
	m.Calls = append(m.Calls, "PREdit "+branch)
	m.Edited = append(m.Edited, PROptions{Title: title, Body: body, Head: branch})
	if m.PREditFunc != nil {
		return m.PREditFunc(branch, title, body)
	}
	return nil
}

// Ensure MockClient implements Client interface
var _ Client = (*MockClient)(nil)
