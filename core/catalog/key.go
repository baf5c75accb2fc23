package catalog

import "strings"

// NamespaceDelimiter separates an optional namespace prefix from the bare key
// name inside a key string, e.g. "auth:login.title".
const NamespaceDelimiter = ":"

// SplitKey splits a key name into its namespace and bare key. Keys without a
// delimiter have an empty namespace. Only the first delimiter is significant,
// so "a:b:c" splits into namespace "a" and key "b:c".
func SplitKey(key string) (namespace, bare string) {
	idx := strings.Index(key, NamespaceDelimiter)
	if idx < 0 {
		return "", key
	}
	return key[:idx], key[idx+len(NamespaceDelimiter):]
}

// JoinKey is the inverse of SplitKey. An empty namespace yields the bare key
// unchanged, so JoinKey(SplitKey(k)) == k for every key.
func JoinKey(namespace, bare string) string {
	if namespace == "" {
		return bare
	}
	return namespace + NamespaceDelimiter + bare
}
