// Copyright 2023 The STMPS Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"bufio"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

const DefaultDataDirs = "/usr/local/share:/usr/share"

// MimeTypes reads the MimeType= line of applications/<entry>.desktop from
// the first data directory that has one. dataDirs is XDG_DATA_DIRS; relative
// entries are skipped.
func MimeTypes(fs afero.Fs, dataDirs, entry string) []string {
	if dataDirs == "" {
		dataDirs = DefaultDataDirs
	}
	dirs := lo.Filter(strings.Split(dataDirs, ":"), func(dir string, _ int) bool {
		return filepath.IsAbs(dir)
	})
	for _, dir := range dirs {
		if types, ok := desktopMimeTypes(fs, filepath.Join(dir, "applications", entry+".desktop")); ok {
			return types
		}
	}
	return []string{}
}

func desktopMimeTypes(fs afero.Fs, path string) ([]string, bool) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if value, ok := strings.CutPrefix(scanner.Text(), "MimeType="); ok {
			return lo.Compact(strings.Split(value, ";")), true
		}
	}
	return nil, false
}
