// Package contractkernel is the shared contract-analysis kernel: the
// shared contract extraction, content-loading, and git-show helpers
// consumed by both the breaking-change detector and, indirectly via
// the same file-content loader, the downstream tracer — so the two
// never duplicate them.
package contractkernel

import (
	"path"
	"strings"
)

// NoiseParts is the closed set of path segments excluded from
// token-intersection signals (test-impact relatedness, component
// inventory grouping).
var NoiseParts = map[string]bool{
	"src": true, "lib": true, "internal": true, "pkg": true,
	"dist": true, "build": true, "node_modules": true, "vendor": true,
	"main": true, "app": true,
}

// APIPathHints is the closed set of directory names that mark a file
// as carrying a public contract surface.
var APIPathHints = map[string]bool{
	"api": true, "schema": true, "contract": true, "interface": true, "dto": true,
}

// ContractExtensions is the closed set of file extensions whose files
// are always treated as carrying a contract surface, regardless of
// directory.
var ContractExtensions = map[string]bool{
	".proto": true, ".graphql": true, ".avsc": true, ".yaml": true, ".yml": true, ".json": true,
}

// TestDirHints is the closed set of path segments that mark a file as
// a test, used by the test-impact assessor (C12) both to classify test
// files and to drop test segments from its token-relatedness check.
var TestDirHints = map[string]bool{
	"test": true, "tests": true, "__tests__": true,
	"spec": true, "specs": true, "e2e": true, "integration": true,
}

// IsContractHintPath reports whether path carries a known contract
// hint: a directory segment in APIPathHints, or a file extension in
// ContractExtensions ("contract-hint path").
func IsContractHintPath(p string) bool {
	p = path.Clean(p)

	if ContractExtensions[strings.ToLower(path.Ext(p))] {
		return true
	}

	for _, segment := range strings.Split(path.Dir(p), "/") {
		if APIPathHints[segment] {
			return true
		}
	}

	return false
}
