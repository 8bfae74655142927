package object

import (
	"fmt"
	"strings"
)

const schemeSep = "://"

// Locator identifies a blob as scheme://bucket/key.
type Locator struct {
	Scheme string
	Bucket string
	Key    string
}

func (l Locator) String() string {
	return l.Scheme + schemeSep + l.Bucket + "/" + l.Key
}

// ParseLocator splits a scheme://bucket/key string. The key keeps any further slashes.
func ParseLocator(raw string) (Locator, error) {
	scheme, rest, ok := strings.Cut(raw, schemeSep)
	if !ok || scheme == "" {
		return Locator{}, fmt.Errorf("invalid locator %q: missing scheme", raw)
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return Locator{}, fmt.Errorf("invalid locator %q: expected bucket/key", raw)
	}
	return Locator{Scheme: scheme, Bucket: bucket, Key: key}, nil
}

// ApplyPrefix joins a key prefix and key with a single slash.
func ApplyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	if cleanKey == "" {
		return cleanPrefix
	}
	return cleanPrefix + "/" + cleanKey
}
