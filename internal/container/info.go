package container

import (
	"path/filepath"
	"strings"
)

// ContainerInfo is the structural metadata of one Matroska file.
type ContainerInfo struct {
	SourcePath     string           `json:"source_path" yaml:"source_path"`
	SourceFilename string           `json:"source_filename" yaml:"source_filename"`
	Recognized     bool             `json:"recognized" yaml:"recognized"`
	ContainerType  string           `json:"container_type,omitempty" yaml:"container_type,omitempty"`
	Tracks         []TrackInfo      `json:"tracks" yaml:"tracks"`
	Attachments    []AttachmentInfo `json:"attachments" yaml:"attachments"`
}

// TrackInfo describes one track. ID is assigned by the probing tool.
type TrackInfo struct {
	ID       int    `json:"id" yaml:"id"`
	Type     string `json:"type" yaml:"type"`
	CodecID  string `json:"codec_id" yaml:"codec_id"`
	Codec    string `json:"codec,omitempty" yaml:"codec,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Default  bool   `json:"default,omitempty" yaml:"default,omitempty"`
	Forced   bool   `json:"forced,omitempty" yaml:"forced,omitempty"`
}

// AttachmentInfo describes one attached file.
type AttachmentInfo struct {
	ID             int    `json:"id" yaml:"id"`
	StoredFilename string `json:"stored_filename" yaml:"stored_filename"`
	ContentType    string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Size           int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// Stem returns the source filename without its extension. A name that is
// only an extension, such as ".mkv", is its own stem.
func (c ContainerInfo) Stem() string {
	name := c.SourceFilename
	if stem := strings.TrimSuffix(name, filepath.Ext(name)); stem != "" {
		return stem
	}
	return name
}

// TracksOfType returns the tracks whose type equals itemType, in probe order.
func (c ContainerInfo) TracksOfType(itemType string) []TrackInfo {
	var matches []TrackInfo
	for _, track := range c.Tracks {
		if track.Type == itemType {
			matches = append(matches, track)
		}
	}
	return matches
}
