package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/TheFenixfx/barbertrack/internal/models"
)

type FileInfo struct {
	Path   string
	Name   string
	Entity string
	Size   int64
}

type ScanOptions struct {
	Extension       string
	ReportSuffix    string
	CaseInsensitive bool
}

// ScanForFiles lists the regular files directly inside rootPath that carry the
// configured extension, skipping previously generated reports. Results are
// sorted by file name.
func ScanForFiles(rootPath string, opts ScanOptions) ([]FileInfo, error) {
	entries, err := os.ReadDir(rootPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &models.NotFoundError{Path: rootPath, Err: err}
		}
		return nil, &models.ReadError{Path: rootPath, Err: err}
	}

	ext := opts.Extension
	reportTail := opts.ReportSuffix + opts.Extension
	if opts.CaseInsensitive {
		ext = strings.ToLower(ext)
		reportTail = strings.ToLower(reportTail)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		matchName := name
		if opts.CaseInsensitive {
			matchName = strings.ToLower(name)
		}
		if !strings.HasSuffix(matchName, ext) {
			continue
		}
		if opts.ReportSuffix != "" && strings.HasSuffix(matchName, reportTail) {
			continue
		}

		var size int64
		if info, err := entry.Info(); err == nil {
			size = info.Size()
		}

		files = append(files, FileInfo{
			Path:   filepath.Join(rootPath, name),
			Name:   name,
			Entity: name[:len(name)-len(opts.Extension)],
			Size:   size,
		})
	}

	return files, nil
}
