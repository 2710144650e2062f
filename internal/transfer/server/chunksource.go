package server

import "os"

// chunkSource reads chunk payloads from the transfer file. A single
// *os.File is shared across every sender and retransmit worker: ReadAt is
// safe for concurrent use (pread under the hood), so no per-worker handle
// or lock is needed.
type chunkSource struct {
	f *os.File
}

func openChunkSource(path string) (*chunkSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &chunkSource{f: f}, nil
}

func (c *chunkSource) read(offset uint64, size int, buf []byte) error {
	_, err := c.f.ReadAt(buf[:size], int64(offset))
	return err
}

func (c *chunkSource) Close() error {
	return c.f.Close()
}
