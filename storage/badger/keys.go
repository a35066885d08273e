package badger

import "fmt"

// Key prefixes for different data types
const (
	sessionRecordPrefix = "sesrec"
)

// makeSessionKey generates a key for a session record by ID.
func makeSessionKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", sessionRecordPrefix, id))
}

// sessionKeyID extracts the session ID from a session record key.
func sessionKeyID(key []byte) string {
	return string(key[len(sessionRecordPrefix)+1:])
}
