package planner

import "sort"

// CodecTable maps Matroska codec identifiers to output file extensions.
// Values are read-only once constructed.
type CodecTable struct {
	extensions map[string]string
}

var defaultCodecs = NewCodecTable(map[string]string{
	"S_HDMV/PGS":  "sup",
	"S_KATE":      "ogg",
	"S_TEXT/ASS":  "ass",
	"S_TEXT/SSA":  "ass",
	"S_TEXT/USF":  "usf",
	"S_TEXT/UTF8": "srt",
	"S_VOBSUB":    "sub",
})

// DefaultCodecTable returns the codecs mkvextract can write as standalone files.
func DefaultCodecTable() CodecTable {
	return defaultCodecs
}

// NewCodecTable copies entries into a new table.
func NewCodecTable(entries map[string]string) CodecTable {
	copied := make(map[string]string, len(entries))
	for codec, ext := range entries {
		copied[codec] = ext
	}
	return CodecTable{extensions: copied}
}

// Extension returns the file extension for codecID.
func (t CodecTable) Extension(codecID string) (string, bool) {
	ext, ok := t.extensions[codecID]
	return ext, ok
}

// Codecs lists the known codec identifiers in sorted order.
func (t CodecTable) Codecs() []string {
	codecs := make([]string, 0, len(t.extensions))
	for codec := range t.extensions {
		codecs = append(codecs, codec)
	}
	sort.Strings(codecs)
	return codecs
}

// Len reports the number of entries.
func (t CodecTable) Len() int {
	return len(t.extensions)
}
