package scan

import "os"

func readFileBounded(path string) ([]byte, error) {
	return os.ReadFile(path) //nolint:gosec // path is produced by filepath.WalkDir over a caller-controlled root
}
