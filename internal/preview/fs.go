package preview

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// servedExts are the artifact types the preview exposes. Everything else in
// the data directory, such as the run lock and the metrics textfile, is
// reported as missing.
var servedExts = map[string]bool{
	".html": true,
	".txt":  true,
	".xlsx": true,
	".csv":  true,
}

type artifactFS struct {
	root http.FileSystem
}

func (a artifactFS) Open(name string) (http.File, error) {
	for _, elem := range strings.Split(name, "/") {
		if strings.HasPrefix(elem, ".") {
			return nil, fs.ErrNotExist
		}
	}

	f, err := a.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		return artifactDir{f}, nil
	}
	if !served(info) {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

func served(info fs.FileInfo) bool {
	if strings.HasPrefix(info.Name(), ".") {
		return false
	}
	return info.IsDir() || servedExts[strings.ToLower(path.Ext(info.Name()))]
}

// artifactDir hides unserved entries from directory listings.
type artifactDir struct {
	http.File
}

func (d artifactDir) Readdir(count int) ([]fs.FileInfo, error) {
	infos, err := d.File.Readdir(count)
	kept := infos[:0]
	for _, info := range infos {
		if served(info) {
			kept = append(kept, info)
		}
	}
	return kept, err
}
