package filestore

import (
	"io"
	"path"
	"strings"
	"time"
)

// Format is the on-disk format of a staged data file, detected from its
// extension.
type Format string

const (
	FormatDuckDB  Format = "duckdb"
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatUnknown Format = ""
)

// DetectFormat classifies an object key by extension. Compressed CSV and
// JSON (.csv.gz, .json.gz) classify as their inner format; the engine's
// readers decompress transparently.
func DetectFormat(key string) Format {
	name := strings.ToLower(path.Base(key))
	name = strings.TrimSuffix(name, ".gz")
	name = strings.TrimSuffix(name, ".zst")

	switch path.Ext(name) {
	case ".duckdb", ".db", ".ddb":
		return FormatDuckDB
	case ".parquet":
		return FormatParquet
	case ".csv", ".tsv":
		return FormatCSV
	case ".json", ".ndjson", ".jsonl":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// DataFile describes one staged data file.
type DataFile struct {
	// Bucket and Key locate the file in the store.
	Bucket string
	Key    string

	// Format is the detected file format, FormatUnknown when none matched.
	Format Format

	// Size is the byte size, -1 when the backend does not report it.
	Size int64

	// ETag is the backend's entity tag for the object.
	ETag string

	// LastModified is when the file was last written.
	LastModified time.Time
}

// ReadExpression renders the SQL fragment that makes the engine read the
// file at url. Database files attach; data files go through the matching
// read function. The second return is false for unknown formats.
//
// The url is single-quoted with '' doubling, so presigned URLs with query
// strings are safe to embed.
func (f DataFile) ReadExpression(url string) (string, bool) {
	quoted := "'" + strings.ReplaceAll(url, "'", "''") + "'"
	switch f.Format {
	case FormatDuckDB:
		return "ATTACH " + quoted + " AS staged (READ_ONLY)", true
	case FormatParquet:
		return "SELECT * FROM read_parquet(" + quoted + ")", true
	case FormatCSV:
		return "SELECT * FROM read_csv(" + quoted + ")", true
	case FormatJSON:
		return "SELECT * FROM read_json(" + quoted + ")", true
	default:
		return "", false
	}
}

// BucketInfo describes a storage bucket.
type BucketInfo struct {
	Name string

	// CreatedAt may be zero when the backend does not expose it.
	CreatedAt time.Time
}

// Object is a streaming handle to one data file's content.
// The caller MUST call Close() after reading.
type Object interface {
	io.ReadCloser

	// File returns the metadata for this object.
	File() *DataFile
}

// ListOptions controls how ListDataFiles filters results.
type ListOptions struct {
	// Prefix restricts results to keys starting with this string.
	Prefix string

	// Recursive lists all objects under the prefix instead of stopping at
	// virtual directory boundaries.
	Recursive bool

	// Formats restricts results to the given formats. Empty means every
	// recognized format; FormatUnknown in the list admits unclassified
	// objects too.
	Formats []Format

	// Limit caps the number of results. 0 means no cap.
	Limit int
}

// WantsFormat reports whether opts admits a file of the given format.
func (o ListOptions) WantsFormat(f Format) bool {
	if len(o.Formats) == 0 {
		return f != FormatUnknown
	}
	for _, want := range o.Formats {
		if f == want {
			return true
		}
	}
	return false
}
