package files

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"osccli/pkg/contracts/domain"
)

// Snapshot identifies the state of a set of located files. Two snapshots with
// the same Fingerprint describe the same paths with the same sizes and
// modification times.
type Snapshot struct {
	Dir         string
	Files       []domain.SourceFile
	Fingerprint uint64
}

// TakeSnapshot locates the files in dir and fingerprints them
func (d *Discovery) TakeSnapshot(dir string) Snapshot {
	return NewSnapshot(dir, d.FindSourceFiles(dir))
}

// NewSnapshot fingerprints an already located file list
func NewSnapshot(dir string, files []domain.SourceFile) Snapshot {
	h := xxhash.New()
	_, _ = h.WriteString(dir)
	for _, f := range files {
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(f.Path)
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(strconv.FormatInt(f.Size, 10))
		_, _ = h.WriteString("\x00")
		_, _ = h.WriteString(strconv.FormatInt(f.ModTime.UnixNano(), 10))
	}
	return Snapshot{Dir: dir, Files: files, Fingerprint: h.Sum64()}
}
