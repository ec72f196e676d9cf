// Package util reads detector evaluation dumps from disk.
package util

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-deteval/evaluation"
)

// SizePlaceholder is replaced by the resolution in record file patterns.
const SizePlaceholder = "{size}"

// recordMarker identifies the lines of a dump that carry a detection record.
const recordMarker = "conf_thresh"

// ErrMalformedLine indicates a record line that could not be parsed.
var ErrMalformedLine = errors.New("util: malformed record line")

// RecordFile represents a records file for one resolution.
type RecordFile struct {
	// Path is the path to the records file.
	Path string
	// Size is the resolution parsed from the file name.
	Size int
	// Records are the parsed detection records in file order.
	Records []evaluation.DetectionRecord
}

// RecordsPath builds the path of the records file for a resolution.
//
// Arguments:
//   - dataDir: Directory holding the records files.
//   - pattern: File name pattern containing SizePlaceholder.
//   - size: The resolution.
//
// Returns:
//   - string: The joined path.
func RecordsPath(dataDir, pattern string, size int) string {
	return filepath.Join(dataDir, strings.ReplaceAll(pattern, SizePlaceholder, strconv.Itoa(size)))
}

// ParseRecords reads detection records from a line oriented dump.
//
// Lines containing "conf_thresh" are parsed as comma separated key=value
// fields in the order conf_thresh, TP, FP, FN. Other lines are ignored.
//
// Arguments:
//   - r: The dump to read.
//
// Returns:
//   - []evaluation.DetectionRecord: The records in input order.
//   - error: ErrMalformedLine with the line number, or a read error.
func ParseRecords(r io.Reader) ([]evaluation.DetectionRecord, error) {
	var records []evaluation.DetectionRecord

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !strings.Contains(line, recordMarker) {
			continue
		}

		record, err := parseRecordLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNo)
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scan records")
	}

	return records, nil
}

func parseRecordLine(line string) (evaluation.DetectionRecord, error) {
	parts := strings.Split(line, ",")
	if len(parts) < 4 {
		return evaluation.DetectionRecord{}, errors.Wrapf(ErrMalformedLine, "want 4 fields, got %d", len(parts))
	}

	values := make([]string, 4)
	for i := range values {
		_, value, ok := strings.Cut(parts[i], "=")
		if !ok {
			return evaluation.DetectionRecord{}, errors.Wrapf(ErrMalformedLine, "field %d has no value", i)
		}
		values[i] = strings.TrimSpace(value)
	}

	threshold, err := strconv.ParseFloat(values[0], 64)
	if err != nil {
		return evaluation.DetectionRecord{}, errors.Wrapf(ErrMalformedLine, "conf_thresh %q", values[0])
	}

	counts := make([]int, 3)
	for i, name := range []string{"TP", "FP", "FN"} {
		n, err := strconv.Atoi(values[i+1])
		if err != nil {
			return evaluation.DetectionRecord{}, errors.Wrapf(ErrMalformedLine, "%s %q", name, values[i+1])
		}
		counts[i] = n
	}

	return evaluation.DetectionRecord{
		ConfidenceThreshold: threshold,
		TruePositives:       counts[0],
		FalsePositives:      counts[1],
		FalseNegatives:      counts[2],
	}, nil
}

// LoadRecordsFile reads and parses a single records file.
func LoadRecordsFile(path string) ([]evaluation.DetectionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open records file")
	}
	defer f.Close()

	records, err := ParseRecords(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return records, nil
}

// LoadDirectoryRecordFiles reads every records file in a directory whose name
// matches pattern.
//
// Arguments:
//   - dir: Directory path containing records files.
//   - pattern: File name pattern containing SizePlaceholder.
//
// Returns:
//   - []RecordFile: The files sorted by ascending size.
//   - error: Error if reading or parsing fails.
func LoadDirectoryRecordFiles(dir, pattern string) ([]RecordFile, error) {
	prefix, suffix, ok := strings.Cut(pattern, SizePlaceholder)
	if !ok {
		return nil, errors.Errorf("pattern %q has no %s placeholder", pattern, SizePlaceholder)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "read data directory")
	}

	var files []RecordFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) || len(name) <= len(prefix)+len(suffix) {
			continue
		}
		size, err := strconv.Atoi(name[len(prefix) : len(name)-len(suffix)])
		if err != nil {
			continue
		}

		path := filepath.Join(dir, name)
		records, err := LoadRecordsFile(path)
		if err != nil {
			return nil, err
		}
		files = append(files, RecordFile{
			Path:    path,
			Size:    size,
			Records: records,
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Size < files[j].Size
	})

	return files, nil
}
