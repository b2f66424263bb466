package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const maxNameAttempts = 16

// Suffix returns six random lowercase hex characters.
func Suffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
}

// FileName is the artifact name for a harness domain ("disk", "diet").
func FileName(domain, suffix string) string {
	return fmt.Sprintf("%s_benchs_%s.json", domain, suffix)
}

// WriteMeans writes the mean-mode artifact: an array of [name, size, mean].
func WriteMeans(dir, domain string, recs []Record) (string, error) {
	if recs == nil {
		recs = []Record{}
	}
	return write(dir, domain, recs)
}

// WriteRegression writes the regression-mode artifact: an array of
// [channel, [[name, size, estimate], ...]].
func WriteRegression(dir, domain string, chans []ChannelRecords) (string, error) {
	if chans == nil {
		chans = []ChannelRecords{}
	}
	return write(dir, domain, chans)
}

// write encodes v and stores it in a new file in dir. The file is created
// exclusively; on a name collision another suffix is drawn.
func write(dir, domain string, v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode results")
	}
	if dir == "" {
		dir = "."
	}

	for i := 0; i < maxNameAttempts; i++ {
		path := filepath.Join(dir, FileName(domain, Suffix()))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return "", errors.Wrap(err, "failed to create result file")
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", errors.Wrapf(err, "failed to write %s", path)
		}
		return path, errors.Wrapf(f.Close(), "failed to close %s", path)
	}
	return "", errors.Errorf("no free result file name in %s after %d attempts", dir, maxNameAttempts)
}
