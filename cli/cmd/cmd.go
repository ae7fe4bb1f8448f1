package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process's standard streams.
func StdStreams() *Streams {
	return &Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// sourceFiles reads a set of deduplicated input files in order, followed by
// stdin if it was named.
type sourceFiles struct {
	files []*os.File
	stdin io.Reader
}

// Reader returns a reader over every source in order.
func (s *sourceFiles) Reader() io.Reader {
	readers := make([]io.Reader, 0, len(s.files)+1)
	for _, f := range s.files {
		readers = append(readers, f)
	}

	if s.stdin != nil {
		readers = append(readers, s.stdin)
	}

	return io.MultiReader(readers...)
}

// Close closes every opened file.
func (s *sourceFiles) Close() error {
	var errs []error

	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// buildSourceFiles opens the given source paths. Files reached through
// different paths or symlinks are read once. All occurrences of "-" are
// replaced with a single stdin reader placed last so it reads after all
// regular files.
func buildSourceFiles(sources []string, stdin io.Reader) (*sourceFiles, error) {
	var srcs sourceFiles

	seen := make(map[fileKey]struct{})

	// stdin may also be named by a path such as /dev/stdin.
	stdinKey, hasStdinKey := fileKey{}, false
	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			stdinKey, hasStdinKey = makeFileKey(info)
		}
	}

	useStdin := false

	for _, src := range sources {
		if src == stdinSource {
			useStdin = true

			continue
		}

		file, key, err := openUniqueFile(src, seen)
		if err != nil {
			_ = srcs.Close()

			return nil, ErrReadInput.Wrap(err)
		}

		if hasStdinKey && key == stdinKey {
			useStdin = true

			if file != nil {
				_ = file.Close()
			}

			continue
		}

		if file != nil {
			srcs.files = append(srcs.files, file)
		}
	}

	if useStdin {
		srcs.stdin = stdin
	}

	return &srcs, nil
}

// openUniqueFile opens the file at path unless it has been seen before, in
// which case it returns a nil file and no error.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, fileKey, error) {
	// Resolve to absolute path to handle relative path duplicates.
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	// Resolve symlinks to their target.
	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	key, ok := makeFileKey(info)
	if ok {
		if _, exists := seen[key]; exists {
			return nil, key, nil
		}

		seen[key] = struct{}{}
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, key, err
	}

	return file, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
