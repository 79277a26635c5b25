// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package keep

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// Discover walks the export directory and returns the paths of all .json
// note records found anywhere below it, in lexical walk order. Every
// directory is descended into, hidden ones included; the extension match is
// case-sensitive.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return paths, nil
}
