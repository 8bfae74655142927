package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving and retrieving binary objects.
// Put blocks until the backend acknowledges the write.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key, contentType string, r io.Reader) (Locator, int64, error)
	Open(ctx context.Context, loc Locator) (io.ReadCloser, error)
}

// ReadAll opens loc and reads at most maxBytes from it.
func ReadAll(ctx context.Context, store ObjectStore, loc Locator, maxBytes int64) ([]byte, error) {
	body, err := store.Open(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var r io.Reader = body
	if maxBytes > 0 {
		r = io.LimitReader(body, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, &TooLargeError{Locator: loc, Limit: maxBytes}
	}
	return data, nil
}

// TooLargeError is returned by ReadAll when an object exceeds the read limit.
type TooLargeError struct {
	Locator Locator
	Limit   int64
}

func (e *TooLargeError) Error() string {
	return "object " + e.Locator.String() + " exceeds read limit"
}
