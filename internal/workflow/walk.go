package workflow

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"vconvert/internal/fileutil"
	"vconvert/internal/media"
)

// WalkOptions controls which files a directory walk yields.
type WalkOptions struct {
	Extensions []string
	Include    []string
	Exclude    []string
	Recurse    bool
}

// CollectFiles walks root and returns candidate video files in path
// order. Hidden entries are skipped, extensions are matched against the
// configured set, include/exclude substrings filter on the file name,
// and files already named with the output marker are dropped without
// probing.
func CollectFiles(root string, opts WalkOptions) ([]media.VideoFile, error) {
	extensions := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extensions[strings.ToLower(ext)] = true
	}

	var files []media.VideoFile
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path == root {
				return nil
			}
			if !opts.Recurse || fileutil.IsHidden(entry.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if fileutil.IsHidden(entry.Name()) {
			return nil
		}

		file := media.NewVideoFile(path)
		if !extensions[file.Extension] {
			return nil
		}
		if file.HasCodecMarker() && media.IsTargetContainer(file.Extension) {
			return nil
		}
		if !nameMatches(file.Name, opts.Include, opts.Exclude) {
			return nil
		}
		files = append(files, file)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

func nameMatches(name string, include, exclude []string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range exclude {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, pattern := range include {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
