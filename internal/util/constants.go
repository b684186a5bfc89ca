package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// UnknownTopic is the sentinel topic key used when an attempt's lesson topic
// cannot be resolved at all.
const UnknownTopic = "unknown"
