package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ManifestSuffix marks package manifest files in a workspace tree.
const ManifestSuffix = ".mm.yaml"

type FileInfo struct {
	Path string
	Size int64
}

// Scanner walks a workspace root for files with the configured suffixes.
type Scanner struct {
	rootDir  string
	suffixes []string
}

// New creates a scanner over rootDir. With no suffixes it discovers
// package manifests.
func New(rootDir string, suffixes ...string) *Scanner {
	if len(suffixes) == 0 {
		suffixes = []string{ManifestSuffix}
	}
	return &Scanner{
		rootDir:  rootDir,
		suffixes: suffixes,
	}
}

// Scan returns the matching files under the root, sorted by path so
// discovery order never depends on goroutine scheduling.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var (
		files []FileInfo
		mutex sync.Mutex
		wg    sync.WaitGroup
	)

	err := filepath.Walk(s.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		if s.isTargetFile(path) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fileInfo := FileInfo{
					Path: path,
					Size: info.Size(),
				}
				mutex.Lock()
				files = append(files, fileInfo)
				mutex.Unlock()
			}()
		}
		return nil
	})

	wg.Wait()
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

func (s *Scanner) isTargetFile(path string) bool {
	for _, suffix := range s.suffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// FindManifests returns the package manifest paths under root, sorted.
// A root that is itself a manifest file is returned as-is.
func FindManifests(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if strings.HasSuffix(root, ManifestSuffix) {
			return []string{root}, nil
		}
		return nil, nil
	}

	files, err := New(root).Scan()
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths, nil
}
