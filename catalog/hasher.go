package catalog

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
)

// ChunkSize is the read size used while streaming file content into the digest.
const ChunkSize = 4096

// FileHash hashes a file and returns the MD5 digest as a lowercase hex string.
// Directories are rejected with ErrExpectedFile and other non-regular files
// (FIFOs, sockets, devices) with ErrNotRegular, since reading them can block.
func FileHash(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", ErrExpectedFile
	}
	if !info.Mode().IsRegular() {
		return "", ErrNotRegular
	}
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	return Hash(file)
}

// Hash reads r to EOF in ChunkSize pieces and returns the MD5 digest as a
// lowercase hex string.
func Hash(r io.Reader) (string, error) {
	h := md5.New()
	buf := make([]byte, ChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
