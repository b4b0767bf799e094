package embcache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// The snapshot is an internal checkpoint, not a public file format: two
// named mappings serialized back to back, query cache first. Nothing else
// about the layout is guaranteed stable across versions.

// Persist serializes both mappings to the snapshot file, overwriting any
// prior snapshot. The write goes through a temp file and rename so a crash
// mid-write never leaves a truncated snapshot behind.
func (c *Cache) Persist() error {
	if c.snapshotPath == "" {
		return errors.New("no snapshot path configured")
	}

	c.mu.Lock()
	buf := make([]byte, snapshotSize(c.query)+snapshotSize(c.document))
	n := marshalMapping(c.query, buf)
	marshalMapping(c.document, buf[n:])
	queries, documents := len(c.query), len(c.document)
	c.mu.Unlock()

	dir := filepath.Dir(c.snapshotPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".embcache-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), c.snapshotPath); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	c.logger.Info("persisted embedding cache snapshot",
		"path", c.snapshotPath, "queries", queries, "documents", documents)
	return nil
}

// Load restores both mappings from the snapshot file. A missing file
// starts the cache empty; a corrupt or unreadable snapshot degrades to
// empty mappings with a logged warning. Load never returns a fatal error
// for snapshot content.
func (c *Cache) Load() error {
	if c.snapshotPath == "" {
		return errors.New("no snapshot path configured")
	}

	data, err := os.ReadFile(c.snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		c.logger.Warn("embedding cache snapshot unreadable, starting empty",
			"path", c.snapshotPath, "err", err)
		return nil
	}

	query, n, err := unmarshalMapping(data)
	if err != nil {
		c.logger.Warn("embedding cache snapshot corrupt, starting empty",
			"path", c.snapshotPath, "err", err)
		return nil
	}
	document, n1, err := unmarshalMapping(data[n:])
	if err != nil {
		c.logger.Warn("embedding cache snapshot corrupt, starting empty",
			"path", c.snapshotPath, "err", err)
		return nil
	}
	if n+n1 != len(data) {
		c.logger.Warn("embedding cache snapshot has trailing garbage, starting empty",
			"path", c.snapshotPath)
		return nil
	}

	c.mu.Lock()
	c.query = query
	c.document = document
	c.mu.Unlock()

	c.logger.Info("loaded embedding cache snapshot",
		"path", c.snapshotPath, "queries", len(query), "documents", len(document))
	return nil
}

func snapshotSize(m map[core.Fingerprint][]float32) int {
	size := varint.Int.Size(len(m))
	for fp, vec := range m {
		size += ord.String.Size(string(fp))
		size += core.VectorMUS.Size(vec)
	}
	return size
}

func marshalMapping(m map[core.Fingerprint][]float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(m), bs)
	for fp, vec := range m {
		n += ord.String.Marshal(string(fp), bs[n:])
		n += core.VectorMUS.Marshal(vec, bs[n:])
	}
	return n
}

func unmarshalMapping(bs []byte) (map[core.Fingerprint][]float32, int, error) {
	length, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if length < 0 {
		return nil, n, core.ErrNegativeLength
	}

	m := make(map[core.Fingerprint][]float32, length)
	for i := 0; i < length; i++ {
		fp, n1, err := ord.String.Unmarshal(bs[n:])
		if err != nil {
			return nil, n, fmt.Errorf("snapshot entry %d: %w", i, err)
		}
		n += n1
		vec, n1, err := core.VectorMUS.Unmarshal(bs[n:])
		if err != nil {
			return nil, n, fmt.Errorf("snapshot entry %d: %w", i, err)
		}
		n += n1
		m[core.Fingerprint(fp)] = vec
	}
	return m, n, nil
}
