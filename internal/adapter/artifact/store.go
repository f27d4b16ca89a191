// Package artifact persists a configuration's tables as a single binary file.
//
// File layout:
//
//	bytes 0-3  magic "GSTB"
//	bytes 4-7  format version, little endian
//	bytes 8-   zstd stream holding a gob-encoded domain.Artifact
//
// Files are written to a temporary name in the destination directory and
// renamed into place, so readers never observe a partial artifact.
package artifact

import (
	"bufio"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/couchcryptid/gridstat-etl/internal/domain"
	"github.com/klauspost/compress/zstd"
)

// FormatVersion is bumped whenever the encoded domain.Artifact changes shape.
const FormatVersion uint32 = 1

const headerSize = 8

var magic = [4]byte{'G', 'S', 'T', 'B'}

var (
	ErrBadMagic           = errors.New("not a gridstat artifact")
	ErrUnsupportedVersion = errors.New("unsupported artifact version")
)

// Store writes artifacts to the local filesystem.
// It implements pipeline.ArtifactWriter.
type Store struct {
	level zstd.EncoderLevel
}

// NewStore creates a Store using the default zstd compression level.
func NewStore() *Store {
	return &Store{level: zstd.SpeedDefault}
}

// Write atomically replaces path with the encoded artifact.
func (s *Store) Write(path string, a *domain.Artifact) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := s.Encode(tmp, a); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

// Encode writes the header and compressed artifact to w.
func (s *Store) Encode(w io.Writer, a *domain.Artifact) error {
	var header [headerSize]byte
	copy(header[0:4], magic[:])
	binary.LittleEndian.PutUint32(header[4:8], FormatVersion)
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(s.level))
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	if err := gob.NewEncoder(zw).Encode(a); err != nil {
		zw.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush zstd writer: %w", err)
	}
	return nil
}

// Read loads the artifact stored at path.
func Read(path string) (*domain.Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	a, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return a, nil
}

// Decode reads an artifact written by Encode.
func Decode(r io.Reader) (*domain.Artifact, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: short header: %v", ErrBadMagic, err)
	}
	if [4]byte(header[0:4]) != magic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadMagic, header[0:4])
	}
	if v := binary.LittleEndian.Uint32(header[4:8]); v != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()

	var a domain.Artifact
	if err := gob.NewDecoder(zr).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if a.Tables == nil {
		a.Tables = domain.TableSet{}
	}
	return &a, nil
}
