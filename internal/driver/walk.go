package driver

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// ListMoveFiles returns every *.move file under root, sorted for a
// deterministic run order. Grounded on the teacher's
// internal/driver.listSGFiles (same WalkDir-then-sort shape, narrowed to
// movelint's single source extension).
func ListMoveFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".move") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
