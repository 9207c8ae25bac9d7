// Package archive inspects uploaded task archives.
//
// A task archive is a zip file whose root (or single top-level directory)
// holds a task.json manifest. Inspect reads the manifest without extracting
// anything else; callers treat ErrNotArchive and ErrNoManifest as "accept the
// bytes, register nothing".
package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/getmockd/tfxmock/pkg/api/types"
)

// ManifestName is the file name of the task manifest inside an archive.
const ManifestName = "task.json"

// maxManifestSize bounds how much of task.json is read.
const maxManifestSize = 1 << 20

var (
	// ErrNotArchive is returned when the payload is not a zip archive.
	ErrNotArchive = errors.New("payload is not a zip archive")
	// ErrNoManifest is returned when the archive holds no task.json.
	ErrNoManifest = errors.New("archive does not contain " + ManifestName)
)

// Manifest is the subset of task.json the server cares about.
type Manifest struct {
	types.TaskDefinition
	// Files is the number of entries in the archive.
	Files int `json:"-"`
}

// Inspect locates and decodes task.json inside data.
func Inspect(data []byte) (*Manifest, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArchive, err)
	}

	f := findManifest(zr.File)
	if f == nil {
		return nil, ErrNoManifest
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	raw, err := io.ReadAll(io.LimitReader(rc, maxManifestSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}

	raw = stripBOM(raw)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Name, err)
	}
	if err := manifestSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", f.Name, err)
	}

	m := &Manifest{Files: len(zr.File)}
	if err := json.Unmarshal(raw, &m.TaskDefinition); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Name, err)
	}
	return m, nil
}

// findManifest prefers a root-level task.json, then one nested a single
// directory deep.
func findManifest(files []*zip.File) *zip.File {
	var nested *zip.File
	for _, f := range files {
		name := strings.TrimPrefix(path.Clean(strings.ReplaceAll(f.Name, "\\", "/")), "/")
		if !strings.EqualFold(path.Base(name), ManifestName) {
			continue
		}
		switch strings.Count(name, "/") {
		case 0:
			return f
		case 1:
			if nested == nil {
				nested = f
			}
		}
	}
	return nested
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
}
