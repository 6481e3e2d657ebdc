package cmd

import (
	"bufio"
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/klauspost/readahead"
)

type sourceFilesKey struct{}

// stdinSource names standard input among the source files.
const stdinSource = "-"

// inode identifies a file independent of the path used to reach it.
type inode struct{ dev, ino uint64 }

func inodeOf(info os.FileInfo) (inode, bool) {
	if info == nil {
		return inode{}, false
	}

	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return inode{}, false
	}

	return inode{dev: uint64(st.Dev), ino: st.Ino}, true
}

// WithSourceFiles returns a new context.Context naming the given formula
// files, in order. The files are opened only when formulas are read.
//
// A file reached by more than one path (symlinks, relative and absolute
// forms) is read once. Stdin, named by "-" or by its device path, is read
// once and last. Files that cannot be resolved are skipped.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	if files := resolveSources(sources); len(files) > 0 {
		return context.WithValue(ctx, sourceFilesKey{}, files)
	}

	return ctx
}

// sourceFiles holds resolved file paths, with [stdinSource] last if named.
type sourceFiles []string

func resolveSources(sources []string) sourceFiles {
	var (
		files sourceFiles
		seen  = make(map[inode]bool)
	)

	info, _ := os.Stdin.Stat()
	stdin, _ := inodeOf(info)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdin] = true

			continue
		}

		path, err := filepath.Abs(src)
		if err == nil {
			path, err = filepath.EvalSymlinks(path)
		}

		if err != nil {
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		key, ok := inodeOf(info)
		if !ok || seen[key] {
			continue
		}

		seen[key] = true

		if key != stdin {
			files = append(files, path)
		}
	}

	if seen[stdin] {
		files = append(files, stdinSource)
	}

	return files
}

// open returns a reader over the files in order, or nil if none could be
// opened, and a function that closes every file it opened.
func (s sourceFiles) open() (io.Reader, func()) {
	var (
		readers []io.Reader
		opened  []*os.File
	)

	for _, path := range s {
		if path == stdinSource {
			readers = append(readers, os.Stdin)

			continue
		}

		f, err := os.Open(path)
		if err != nil {
			continue
		}

		opened = append(opened, f)
		readers = append(readers, f)
	}

	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	if len(readers) == 0 {
		return nil, closeAll
	}

	return io.MultiReader(readers...), closeAll
}

func sourceFilesFrom(ctx context.Context) sourceFiles {
	files, _ := ctx.Value(sourceFilesKey{}).(sourceFiles)

	return files
}

// formulas yields the formulas a command operates on: args when given,
// otherwise each line of the source files that is neither blank nor a
// comment starting with '#'.
func formulas(ctx context.Context, args []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if len(args) > 0 {
			for _, arg := range args {
				if !yield(arg, nil) {
					return
				}
			}

			return
		}

		r, closeFiles := sourceFilesFrom(ctx).open()
		defer closeFiles()

		if r == nil {
			yield("", ErrNoInput)

			return
		}

		ra := readahead.NewReader(r)
		defer ra.Close()

		scan := bufio.NewScanner(ra)
		for scan.Scan() {
			if err := ctx.Err(); err != nil {
				yield("", err)

				return
			}

			line := strings.TrimSpace(scan.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			if !yield(line, nil) {
				return
			}
		}

		if err := scan.Err(); err != nil {
			yield("", ErrReadInput.Wrap(err))
		}
	}
}
