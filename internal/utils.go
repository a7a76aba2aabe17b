package internal

import (
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

// fallbackMIMEType is used when the content cannot be identified as audio or video
const fallbackMIMEType = "video/mp4"

// FileExists checks if a file exists
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !os.IsNotExist(err)
}

// EnsureDirs creates directories if needed
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ValidateInput checks that path is an existing regular file and returns its size
func ValidateInput(path string) (int64, error) {
	if strings.TrimSpace(path) == "" {
		return 0, PreconditionError("checking input", errors.New("no input file given"))
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, PreconditionError("checking input", errors.Errorf("file '%s' not found", path))
		}
		return 0, PreconditionError("checking input", err)
	}
	if info.IsDir() {
		return 0, PreconditionError("checking input", errors.Errorf("'%s' is a directory", path))
	}
	return info.Size(), nil
}

// DetectMIMEType identifies audio or video content from the file header,
// falling back to video/mp4
func DetectMIMEType(path string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return fallbackMIMEType
	}
	for m := mtype; m != nil; m = m.Parent() {
		base := strings.SplitN(m.String(), ";", 2)[0]
		if strings.HasPrefix(base, "video/") || strings.HasPrefix(base, "audio/") {
			return base
		}
	}
	return fallbackMIMEType
}
