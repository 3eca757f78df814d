package store

// KV is the durable key-value surface shared by the SQLite and Redis backends.
// SetAll and DeleteAll are atomic: readers never observe a partial batch.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	SetAll(pairs map[string]string) error
	Delete(key string) error
	DeleteAll(keys ...string) error
}

var (
	_ KV = (*Store)(nil)
	_ KV = (*RedisKV)(nil)
)
