package pathifier

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// SavedImageExt is the extension every new capture is written with.
const SavedImageExt = "png"

// imageNamePattern matches the names the store recognises. Anything else in
// the store directory is ignored by listing, numbering and eviction.
var imageNamePattern = regexp.MustCompile(`^img_([0-9]{4,})\.(png|jpg|jpeg)$`)

// StoredImage is a persisted capture. Records are never mutated after creation.
type StoredImage struct {
	Path    string    // Absolute path
	Number  int       // Sequence number parsed from the name
	Ext     string    // png, jpg or jpeg
	ModTime time.Time // Filesystem mtime, used for ordering only
}

// Name returns the base filename.
func (s StoredImage) Name() string {
	return filepath.Base(s.Path)
}

// ImageName returns the filename for a new capture with sequence number n.
// Numbers are zero-padded to at least four digits.
func ImageName(n int) string {
	return fmt.Sprintf("img_%04d.%s", n, SavedImageExt)
}

// ParseImageName extracts the sequence number and extension from a store
// filename. Returns ok=false for names outside the directory contract.
func ParseImageName(name string) (n int, ext string, ok bool) {
	m := imageNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Overflowing digit runs are not usable as sequence numbers.
		return 0, "", false
	}
	return n, m[2], true
}
