// Package scan walks a repository tree and aggregates per-file metrics
// into per-language and per-directory summaries.
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/vinpuli/archscribe/pkg/extract"
	"github.com/vinpuli/archscribe/pkg/langdetect"
)

// FileNode is File Node.
type FileNode struct {
	Path      string `json:"path"`
	Language  string `json:"language"`
	Extension string `json:"extension"`
	Size      int64  `json:"size"`
}

// FileReport pairs a FileNode with its computed metrics.
type FileReport struct {
	Node    FileNode        `json:"node"`
	Metrics extract.Metrics `json:"metrics"`
}

// LanguageSummary aggregates metrics across all files of one language.
type LanguageSummary struct {
	Language        string  `json:"language"`
	FileCount       int     `json:"file_count"`
	TotalLines      int     `json:"total_lines"`
	TotalCodeLines  int     `json:"total_code_lines"`
	AvgComplexity   float64 `json:"avg_complexity"`
	TotalSize       int64   `json:"total_size"`
	HumanTotalSize  string  `json:"human_total_size"`
}

// DirectorySummary aggregates metrics across all files under one
// directory (non-recursive rollup keyed by immediate parent directory).
type DirectorySummary struct {
	Directory string `json:"directory"`
	FileCount int    `json:"file_count"`
	TotalLines int   `json:"total_lines"`
	TotalSize  int64 `json:"total_size"`
}

// Result is the C6 output payload.
type Result struct {
	Files       []FileReport        `json:"files"`
	ByLanguage  []LanguageSummary    `json:"by_language"`
	ByDirectory []DirectorySummary   `json:"by_directory"`
	TotalFiles  int                  `json:"total_files"`
	TotalSize   int64                `json:"total_size"`
}

// Options configures a Walk invocation, mirroring Repository
// Scope tuple (root_path, recursive, extension_filter).
type Options struct {
	Root             string
	Extensions       []string
	MaxFileSizeBytes int64
	Recursive        bool
}

// defaultMaxFileSize bounds how much of a file is read for metrics, a
// generous ceiling that still protects against pathological inputs.
const defaultMaxFileSize = 5 * 1024 * 1024

// Walk scans a repository tree and returns per-file and aggregated
// metrics. It never returns an error for per-file read failures — such
// files are simply skipped: the walk itself always succeeds over a
// readable directory.
func Walk(opts Options) (Result, error) {
	if opts.MaxFileSizeBytes <= 0 {
		opts.MaxFileSizeBytes = defaultMaxFileSize
	}

	var reports []FileReport

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped, not fatal
		}

		if d.IsDir() {
			if !opts.Recursive && path != opts.Root {
				return filepath.SkipDir
			}

			return nil
		}

		rel, relErr := filepath.Rel(opts.Root, path)
		if relErr != nil {
			return nil
		}

		rel = filepath.ToSlash(rel)

		if !extensionAllowed(rel, opts.Extensions) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil || info.Size() > opts.MaxFileSizeBytes {
			return nil
		}

		report, ok := buildReport(path, rel, info.Size())
		if ok {
			reports = append(reports, report)
		}

		return nil
	}

	if err := filepath.WalkDir(opts.Root, walkFn); err != nil {
		return Result{}, err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Node.Path < reports[j].Node.Path })

	return aggregate(reports), nil
}

func extensionAllowed(path string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}

	for _, ext := range allowed {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}

	return false
}

func buildReport(absPath, relPath string, size int64) (FileReport, bool) {
	detection := langdetect.Detect(absPath)

	node := FileNode{
		Path:      relPath,
		Language:  detection.Language,
		Extension: detection.Extension,
		Size:      size,
	}

	if detection.Language == langdetect.Unknown {
		return FileReport{Node: node}, true
	}

	content, err := readFileBounded(absPath)
	if err != nil {
		return FileReport{Node: node}, true
	}

	return FileReport{Node: node, Metrics: extract.ComputeMetrics(detection.Language, content)}, true
}

func aggregate(reports []FileReport) Result {
	langAgg := make(map[string]*LanguageSummary)
	dirAgg := make(map[string]*DirectorySummary)

	var totalSize int64

	for _, r := range reports {
		totalSize += r.Node.Size

		lang := langAgg[r.Node.Language]
		if lang == nil {
			lang = &LanguageSummary{Language: r.Node.Language}
			langAgg[r.Node.Language] = lang
		}

		lang.FileCount++
		lang.TotalLines += r.Metrics.TotalLines
		lang.TotalCodeLines += r.Metrics.CodeLines
		lang.TotalSize += r.Node.Size
		lang.AvgComplexity += float64(r.Metrics.CyclomaticComplexity)

		dir := dirOf(r.Node.Path)
		d := dirAgg[dir]

		if d == nil {
			d = &DirectorySummary{Directory: dir}
			dirAgg[dir] = d
		}

		d.FileCount++
		d.TotalLines += r.Metrics.TotalLines
		d.TotalSize += r.Node.Size
	}

	languages := make([]LanguageSummary, 0, len(langAgg))

	for _, l := range langAgg {
		if l.FileCount > 0 {
			l.AvgComplexity /= float64(l.FileCount)
		}

		l.HumanTotalSize = humanize.Bytes(uint64(l.TotalSize)) //nolint:gosec // sizes are bounded by MaxFileSizeBytes
		languages = append(languages, *l)
	}

	sort.Slice(languages, func(i, j int) bool { return languages[i].Language < languages[j].Language })

	dirs := make([]DirectorySummary, 0, len(dirAgg))
	for _, d := range dirAgg {
		dirs = append(dirs, *d)
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Directory < dirs[j].Directory })

	return Result{
		Files:       reports,
		ByLanguage:  languages,
		ByDirectory: dirs,
		TotalFiles:  len(reports),
		TotalSize:   totalSize,
	}
}

func dirOf(relPath string) string {
	idx := strings.LastIndexByte(relPath, '/')
	if idx < 0 {
		return "."
	}

	return relPath[:idx]
}
