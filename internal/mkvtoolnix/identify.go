package mkvtoolnix

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Identification is the parsed JSON identification of a container.
type Identification struct {
	FileName    string       `json:"file_name"`
	Container   Container    `json:"container"`
	Tracks      []Track      `json:"tracks"`
	Attachments []Attachment `json:"attachments"`
	Errors      []string     `json:"errors"`
}

// Container describes the container-level identification flags.
type Container struct {
	Recognized bool   `json:"recognized"`
	Supported  bool   `json:"supported"`
	Type       string `json:"type"`
}

// Track describes one track reported by mkvmerge.
type Track struct {
	ID         int             `json:"id"`
	Type       string          `json:"type"`
	Codec      string          `json:"codec"`
	Properties TrackProperties `json:"properties"`
}

// TrackProperties holds the track properties vx reads.
type TrackProperties struct {
	CodecID      string `json:"codec_id"`
	Language     string `json:"language"`
	TrackName    string `json:"track_name"`
	DefaultTrack bool   `json:"default_track"`
	ForcedTrack  bool   `json:"forced_track"`
}

// Attachment describes one attached file reported by mkvmerge.
type Attachment struct {
	ID          int    `json:"id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Description string `json:"description"`
	Size        int64  `json:"size"`
}

// ParseIdentification decodes mkvmerge JSON identification output.
func ParseIdentification(data []byte) (Identification, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return Identification{}, fmt.Errorf("mkvmerge identification: empty output")
	}
	var id Identification
	if err := json.Unmarshal([]byte(trimmed), &id); err != nil {
		return Identification{}, fmt.Errorf("mkvmerge identification: %w", err)
	}
	return id, nil
}
