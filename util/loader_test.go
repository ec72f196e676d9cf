package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-deteval/evaluation"
)

const sampleDump = `darknet detector map cfg/cells.data
 calculation mAP (mean average precision)...
conf_thresh = 0.10, TP = 8, FP = 2, FN = 2, average IoU = 71.23 %
 for conf_thresh = 0.50, TP = 5, FP = 1, FN = 5, average IoU = 74.01 %

conf_thresh=0.9,TP=2,FP=0,FN=8
Total Detection Time: 12 Seconds
`

func TestParseRecords(t *testing.T) {
	records, err := ParseRecords(strings.NewReader(sampleDump))
	require.NoError(t, err)

	want := []evaluation.DetectionRecord{
		{ConfidenceThreshold: 0.1, TruePositives: 8, FalsePositives: 2, FalseNegatives: 2},
		{ConfidenceThreshold: 0.5, TruePositives: 5, FalsePositives: 1, FalseNegatives: 5},
		{ConfidenceThreshold: 0.9, TruePositives: 2, FalsePositives: 0, FalseNegatives: 8},
	}
	assert.Equal(t, want, records)
}

func TestParseRecords_NoMatchingLines(t *testing.T) {
	records, err := ParseRecords(strings.NewReader("nothing here\nstill nothing\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseRecords_Malformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "too few fields", line: "conf_thresh = 0.1, TP = 3"},
		{name: "bad threshold", line: "conf_thresh = high, TP = 1, FP = 2, FN = 3"},
		{name: "bad count", line: "conf_thresh = 0.1, TP = one, FP = 2, FN = 3"},
		{name: "missing value", line: "conf_thresh = 0.1, TP, FP = 2, FN = 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRecords(strings.NewReader("header\n" + tt.line + "\n"))
			assert.ErrorIs(t, err, ErrMalformedLine)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestRecordsPath(t *testing.T) {
	got := RecordsPath("data", "{size}_yolov4_5000_cell_data.txt", 608)
	assert.Equal(t, filepath.Join("data", "608_yolov4_5000_cell_data.txt"), got)
}

func TestLoadRecordsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "512_dump.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleDump), 0o644))

	records, err := LoadRecordsFile(path)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = LoadRecordsFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestLoadDirectoryRecordFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"800_yolov4_cell_data.txt",
		"512_yolov4_cell_data.txt",
		"608_yolov4_cell_data.txt",
		"notes.txt",
		"big_yolov4_cell_data.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(sampleDump), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "416_yolov4_cell_data.txt"), 0o755))

	files, err := LoadDirectoryRecordFiles(dir, "{size}_yolov4_cell_data.txt")
	require.NoError(t, err)

	sizes := make([]int, 0, len(files))
	for _, f := range files {
		sizes = append(sizes, f.Size)
		assert.Len(t, f.Records, 3)
	}
	assert.Equal(t, []int{512, 608, 800}, sizes)
}

func TestLoadDirectoryRecordFiles_BadPattern(t *testing.T) {
	_, err := LoadDirectoryRecordFiles(t.TempDir(), "cell_data.txt")
	assert.Error(t, err)
}
