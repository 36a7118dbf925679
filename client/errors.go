package client

import "fmt"

// FetchError reports a failed list, search or create call. It covers both
// transport failures and non-success statuses.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: failed to fetch items from the server (status %d)", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: failed to fetch items from the server", e.Op)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DeleteError reports a delete the server answered with a non-ok status
type DeleteError struct {
	ID         int
	StatusCode int
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete item %d failed with status %d", e.ID, e.StatusCode)
}
