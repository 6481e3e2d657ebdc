package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// debugBin matches the default output name of the dlv debugger.
var debugBin = regexp.MustCompile(`^__debug_bin\d*$`)

// Prefix returns the name used for the configuration and cache
// directories: the base name of the executable without extension or
// leading dots. Under the dlv debugger it is [Name].
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	base := filepath.Base(exe)
	base = strings.TrimLeft(strings.TrimSuffix(base, filepath.Ext(base)), ".")

	if base == "" || debugBin.MatchString(base) {
		return Name
	}

	return base
})

// ConfigDir returns the directory holding the configuration file.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// CacheDir returns the directory holding transient files such as profiles.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// userDir joins [Prefix] to the platform directory returned by base. When
// base fails it falls back to hidden under the home directory, then to the
// working directory.
func userDir(base func() (string, error), hidden string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}
