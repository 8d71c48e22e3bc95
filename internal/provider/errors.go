package provider

import "fmt"

// InvalidPathError is returned when a repository path does not exist or is not a directory
type InvalidPathError struct {
	Path   string
	Reason string
	Err    error
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}

func (e *InvalidPathError) Unwrap() error { return e.Err }

// NotRepositoryError is returned when no .git directory is found for the path
type NotRepositoryError struct {
	Path string
	Err  error
}

func (e *NotRepositoryError) Error() string {
	msg := fmt.Sprintf("%s is not a git repository", e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NotRepositoryError) Unwrap() error { return e.Err }

// RemoteURLError is returned when a remote URL is passed instead of a local path
type RemoteURLError struct {
	URL string
}

func (e *RemoteURLError) Error() string {
	return fmt.Sprintf("remote URLs are not supported, clone the repository first: git clone %s", e.URL)
}
