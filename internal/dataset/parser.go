package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Source table file names, fixed by the upstream data provider.
const (
	fileTitles              = "titles.csv"
	fileTitleVotes          = "titleVotes.csv"
	fileThumbnails          = "thumbnails.csv"
	fileThumbnailTimestamps = "thumbnailTimestamps.csv"
	fileThumbnailVotes      = "thumbnailVotes.csv"
	fileUsernames           = "userNames.csv"
	fileVIPUsers            = "vipUsers.csv"
	fileWarnings            = "warnings.csv"
	fileSegments            = "sponsorTimes.csv"
)

// row is one decoded CSV record with header-mapped column access.
// Missing columns read as empty strings so a malformed row fails the
// typed accessor instead of panicking.
type row struct {
	cols   map[string]int
	fields []string
}

func (r row) str(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

func (r row) int64(name string) (int64, error) {
	v, err := strconv.ParseInt(r.str(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}

func (r row) int32(name string) (int32, error) {
	v, err := strconv.ParseInt(r.str(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return int32(v), nil
}

func (r row) float64(name string) (float64, error) {
	v, err := strconv.ParseFloat(r.str(name), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}

// bool01 decodes the upstream 0/1 flag encoding. Any other value is a
// malformed row, not a truthy value.
func (r row) bool01(name string) (bool, error) {
	switch r.str(name) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("column %s: invalid flag value %q", name, r.str(name))
	}
}

// parseTable streams a CSV table, calling apply for every row. Rows
// that fail to decode are skipped and counted, never fatal; a missing
// file is fatal only when the table is required.
func parseTable(path string, required bool, stats *ReloadStats, name string, apply func(row) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			stats.Tables[name] = TableStats{}
			return nil
		}
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			stats.Tables[name] = TableStats{}
			return nil
		}
		return fmt.Errorf("read %s header: %w", name, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[h] = i
	}

	var ts TableStats
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Wrong column count or a quoting problem in one record.
			// The reader recovers on the next row.
			ts.Skipped++
			stats.Diagnostics = append(stats.Diagnostics, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if err := apply(row{cols: cols, fields: fields}); err != nil {
			ts.Skipped++
			stats.Diagnostics = append(stats.Diagnostics, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		ts.Rows++
	}
	stats.Tables[name] = ts
	return nil
}
