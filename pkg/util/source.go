// SourceReader reads content files for scanning using memory-mapped I/O.
//
// Each file is mapped read-only for the duration of one tokenization pass and
// unmapped on Close. Files that cannot be mapped (special files, some network
// file systems) fall back to os.ReadFile.
package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/edsrzf/mmap-go"
)

// Source is the content of one file, valid until Close is called.
type Source struct {
	// Path is the path the file was opened with.
	Path string

	// Data is the file content. It aliases the mapping for mmap'd files
	// and must not be retained after Close.
	Data []byte

	// Size is the file size in bytes.
	Size int64

	// ModTime is the modification time observed when the file was opened.
	ModTime time.Time

	mapped mmap.MMap
	file   *os.File
}

// Close releases the mapping and file descriptor. Safe to call twice.
func (s *Source) Close() error {
	var err error
	if s.mapped != nil {
		err = s.mapped.Unmap()
		s.mapped = nil
	}
	if s.file != nil {
		if cerr := s.file.Close(); cerr != nil && err == nil {
			err = cerr
		}
		s.file = nil
	}
	s.Data = nil
	return err
}

// SourceReaderStats tracks reader metrics.
type SourceReaderStats struct {
	FilesRead    int64
	BytesRead    int64
	MmapFailures int64
}

// SourceReader opens sources for scanning.
//
// Thread-safe: Open may be called from many goroutines.
type SourceReader struct {
	logger *slog.Logger

	filesRead    atomic.Int64
	bytesRead    atomic.Int64
	mmapFailures atomic.Int64
}

// NewSourceReader creates a reader. A nil logger uses slog.Default().
func NewSourceReader(logger *slog.Logger) *SourceReader {
	return &SourceReader{logger: OrDefault(logger)}
}

// Open maps path read-only, falling back to os.ReadFile when mmap fails.
func (r *SourceReader) Open(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file %q: %w", path, err)
	}
	if stat.IsDir() {
		file.Close()
		return nil, fmt.Errorf("failed to read %q: is a directory", path)
	}

	src := &Source{Path: path, Size: stat.Size(), ModTime: stat.ModTime()}

	// Zero-length files cannot be mapped.
	if stat.Size() == 0 {
		file.Close()
		r.record(0)
		return src, nil
	}

	m, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		r.mmapFailures.Add(1)
		r.logger.Debug("mmap failed, using fallback", "file", path, "size", stat.Size(), "error", err)
		file.Close()

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("mmap failed and fallback failed for %q: mmap error: %v, read error: %w",
				path, err, readErr)
		}
		src.Data = data
		src.Size = int64(len(data))
		r.record(src.Size)
		return src, nil
	}

	src.mapped = m
	src.file = file
	src.Data = m
	r.record(src.Size)
	return src, nil
}

// ReadAll returns a copy of the file content that outlives the mapping.
func (r *SourceReader) ReadAll(path string) ([]byte, time.Time, error) {
	src, err := r.Open(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer src.Close()

	out := make([]byte, len(src.Data))
	copy(out, src.Data)
	return out, src.ModTime, nil
}

// Stats returns a snapshot of the reader metrics.
func (r *SourceReader) Stats() SourceReaderStats {
	return SourceReaderStats{
		FilesRead:    r.filesRead.Load(),
		BytesRead:    r.bytesRead.Load(),
		MmapFailures: r.mmapFailures.Load(),
	}
}

func (r *SourceReader) record(n int64) {
	r.filesRead.Add(1)
	r.bytesRead.Add(n)
}
