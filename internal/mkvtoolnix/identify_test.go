package mkvtoolnix_test

import (
	"testing"

	"vx/internal/mkvtoolnix"
)

const sampleIdentification = `{
  "container": {"recognized": true, "supported": true, "type": "Matroska"},
  "file_name": "/media/show/video.mkv",
  "tracks": [
    {"id": 0, "type": "video", "codec": "AVC/H.264/MPEG-4p10", "properties": {"codec_id": "V_MPEG4/ISO/AVC"}},
    {"id": 2, "type": "subtitles", "codec": "SubRip/SRT", "properties": {"codec_id": "S_TEXT/UTF8", "language": "eng", "track_name": "English", "default_track": true}},
    {"id": 3, "type": "subtitles", "codec": "HDMV PGS", "properties": {"codec_id": "S_HDMV/PGS", "language": "ger", "forced_track": true}}
  ],
  "attachments": [
    {"id": 1, "file_name": "font.ttf", "content_type": "application/x-truetype-font", "size": 52340}
  ]
}`

func TestParseIdentification(t *testing.T) {
	id, err := mkvtoolnix.ParseIdentification([]byte(sampleIdentification))
	if err != nil {
		t.Fatalf("ParseIdentification returned error: %v", err)
	}
	if !id.Container.Recognized || id.Container.Type != "Matroska" {
		t.Fatalf("unexpected container: %+v", id.Container)
	}
	if id.FileName != "/media/show/video.mkv" {
		t.Fatalf("unexpected file name %q", id.FileName)
	}
	if len(id.Tracks) != 3 {
		t.Fatalf("expected 3 tracks, got %d", len(id.Tracks))
	}
	sub := id.Tracks[1]
	if sub.ID != 2 || sub.Type != "subtitles" || sub.Properties.CodecID != "S_TEXT/UTF8" {
		t.Fatalf("unexpected subtitle track: %+v", sub)
	}
	if sub.Properties.Language != "eng" || sub.Properties.TrackName != "English" || !sub.Properties.DefaultTrack {
		t.Fatalf("unexpected subtitle properties: %+v", sub.Properties)
	}
	if !id.Tracks[2].Properties.ForcedTrack {
		t.Fatal("expected forced flag on track 3")
	}
	if len(id.Attachments) != 1 || id.Attachments[0].FileName != "font.ttf" || id.Attachments[0].Size != 52340 {
		t.Fatalf("unexpected attachments: %+v", id.Attachments)
	}
}

func TestParseIdentificationUnrecognized(t *testing.T) {
	payload := `{"container": {"recognized": false, "supported": false}, "errors": ["The type of file 'x.txt' could not be recognized."], "file_name": "x.txt"}`
	id, err := mkvtoolnix.ParseIdentification([]byte(payload))
	if err != nil {
		t.Fatalf("ParseIdentification returned error: %v", err)
	}
	if id.Container.Recognized {
		t.Fatal("expected unrecognized container")
	}
	if len(id.Tracks) != 0 || len(id.Attachments) != 0 {
		t.Fatalf("expected no items, got %+v", id)
	}
	if len(id.Errors) != 1 {
		t.Fatalf("expected tool error to be kept, got %v", id.Errors)
	}
}

func TestParseIdentificationRejectsGarbage(t *testing.T) {
	for _, payload := range []string{"", "   \n", "not json", "{\"container\":"} {
		if _, err := mkvtoolnix.ParseIdentification([]byte(payload)); err == nil {
			t.Fatalf("expected error for %q", payload)
		}
	}
}
