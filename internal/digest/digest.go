// Package digest computes a whole-file MD5 digest, restoring the original
// source's calculate_md5 step (dropped from spec.md's distillation but
// useful as a post-transfer integrity check against the source file).
package digest

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
)

const blockSize = 8192

// File streams path through MD5 and returns the hex digest. The blockSize
// buffer is handed to io.CopyBuffer, which leaves it unused when the source
// (*os.File) implements io.WriterTo. crypto/md5 is a stdlib leaf here deliberately: no library in the
// example corpus wraps whole-file hashing, and reimplementing MD5 would be
// pointless when the standard library already provides it.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	buf := make([]byte, blockSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
