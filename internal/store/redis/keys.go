package redis

const (
	// KeyHistory is the single key the whole scan-history blob lives under.
	KeyHistory = "scand:history"
)

// HistoryKey returns the redis key for the scan-history blob.
func HistoryKey() string {
	return KeyHistory
}
