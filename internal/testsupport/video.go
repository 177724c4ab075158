package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"vx/internal/mkvtoolnix"
)

// WriteVideo creates a placeholder video file at path together with the
// "<path>.json" identification the stubbed mkvmerge prints for it.
func WriteVideo(t testing.TB, path string, id mkvtoolnix.Identification) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	// mkvmerge is stubbed; the video only has to exist.
	if err := os.WriteFile(path, []byte("\x1a\x45\xdf\xa3"), 0o644); err != nil {
		t.Fatalf("write video %s: %v", path, err)
	}
	if id.FileName == "" {
		id.FileName = path
	}
	data, err := json.Marshal(id)
	if err != nil {
		t.Fatalf("marshal identification: %v", err)
	}
	if err := os.WriteFile(path+".json", data, 0o644); err != nil {
		t.Fatalf("write identification for %s: %v", filepath.Base(path), err)
	}
}

// Matroska returns a recognized identification with the given items.
func Matroska(tracks []mkvtoolnix.Track, attachments []mkvtoolnix.Attachment) mkvtoolnix.Identification {
	return mkvtoolnix.Identification{
		Container:   mkvtoolnix.Container{Recognized: true, Supported: true, Type: "Matroska"},
		Tracks:      tracks,
		Attachments: attachments,
	}
}

// Subtitle returns a subtitle track description.
func Subtitle(id int, codecID, lang string) mkvtoolnix.Track {
	return mkvtoolnix.Track{
		ID:         id,
		Type:       "subtitles",
		Properties: mkvtoolnix.TrackProperties{CodecID: codecID, Language: lang},
	}
}
