package planner

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vx/internal/container"
	"vx/internal/mkvtoolnix"
	"vx/internal/services"
)

// DefaultItemType is the track type extracted when none is requested.
const DefaultItemType = "subtitles"

// ExtractionSpec is one planned extraction: the item id and its destination.
// It is handed to mkvextract unchanged.
type ExtractionSpec = mkvtoolnix.Instruction

// Mode is an extraction strategy.
type Mode interface {
	// Name is the mkvextract mode the specs are meant for.
	Name() string
	// DefaultDir is the base directory used when one is requested without a value.
	DefaultDir() string
	// Items describes what the mode extracts, e.g. "subtitles tracks".
	Items() string
	Plan(info container.ContainerInfo, baseDir string) ([]ExtractionSpec, error)
}

// Plan runs mode against info. An unrecognized container is rejected before
// the mode sees it.
func Plan(mode Mode, info container.ContainerInfo, baseDir string) ([]ExtractionSpec, error) {
	if mode == nil {
		return nil, services.Wrap(services.ErrExecutionFailed, info.SourceFilename, "plan", "no extraction mode", nil)
	}
	if !info.Recognized {
		return nil, services.Wrap(services.ErrUnsupportedContainer, info.SourceFilename, "plan", "container not recognized", nil)
	}
	return mode.Plan(info, baseDir)
}

// TrackExtraction plans the extraction of every track of one type.
type TrackExtraction struct {
	ItemType string
	Codecs   CodecTable
}

// NewTrackExtraction returns a track mode for itemType using the default codec table.
func NewTrackExtraction(itemType string) TrackExtraction {
	return TrackExtraction{ItemType: itemType, Codecs: DefaultCodecTable()}
}

func (m TrackExtraction) Name() string { return mkvtoolnix.ModeTracks }

func (m TrackExtraction) itemType() string {
	if t := strings.TrimSpace(m.ItemType); t != "" {
		return t
	}
	return DefaultItemType
}

// DefaultDir is the title-cased item type, e.g. "Subtitles".
func (m TrackExtraction) DefaultDir() string {
	return cases.Title(language.English).String(m.itemType())
}

func (m TrackExtraction) Items() string { return m.itemType() + " tracks" }

func (m TrackExtraction) codecs() CodecTable {
	if m.Codecs.extensions == nil {
		return DefaultCodecTable()
	}
	return m.Codecs
}

// Plan maps the matching tracks to output paths. The id suffix is applied to
// every match or to none, depending on the number of matches.
func (m TrackExtraction) Plan(info container.ContainerInfo, baseDir string) ([]ExtractionSpec, error) {
	matches := info.TracksOfType(m.itemType())
	if len(matches) == 0 {
		return []ExtractionSpec{}, nil
	}
	codecs := m.codecs()
	base := filepath.Join(baseDir, info.Stem())
	suffixed := len(matches) > 1

	specs := make([]ExtractionSpec, 0, len(matches))
	for _, track := range matches {
		ext, ok := codecs.Extension(track.CodecID)
		if !ok {
			return nil, services.Wrap(
				services.ErrUnsupportedCodec,
				info.SourceFilename,
				fmt.Sprintf("track %d", track.ID),
				fmt.Sprintf("no file extension known for codec %q", track.CodecID),
				nil,
			)
		}
		name := base
		if suffixed {
			name += "_" + strconv.Itoa(track.ID)
		}
		specs = append(specs, ExtractionSpec{ID: track.ID, OutputPath: name + "." + ext})
	}
	return specs, nil
}

// AttachmentExtraction plans the extraction of every attachment.
type AttachmentExtraction struct{}

func (AttachmentExtraction) Name() string { return mkvtoolnix.ModeAttachments }

func (AttachmentExtraction) DefaultDir() string { return "Attachments" }

func (AttachmentExtraction) Items() string { return "attachments" }

// Plan places each attachment under a directory named after the source.
// Stored names are reduced to their final element so a crafted name cannot
// leave that directory.
func (AttachmentExtraction) Plan(info container.ContainerInfo, baseDir string) ([]ExtractionSpec, error) {
	dir := filepath.Join(baseDir, info.Stem())
	specs := make([]ExtractionSpec, 0, len(info.Attachments))
	for _, att := range info.Attachments {
		specs = append(specs, ExtractionSpec{
			ID:         att.ID,
			OutputPath: filepath.Join(dir, storedName(att)),
		})
	}
	return specs, nil
}

func storedName(att container.AttachmentInfo) string {
	name := filepath.Base(filepath.FromSlash(strings.TrimSpace(att.StoredFilename)))
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return "attachment_" + strconv.Itoa(att.ID)
	}
	return name
}

// ModeFor returns the mode registered under name. Track mode only extracts
// subtitles; a blank itemType selects them.
func ModeFor(name, itemType string) (Mode, error) {
	switch name {
	case mkvtoolnix.ModeTracks:
		itemType = strings.TrimSpace(itemType)
		if itemType != "" && itemType != DefaultItemType {
			return nil, fmt.Errorf("invalid track type %q (allowed: %s)", itemType, DefaultItemType)
		}
		return NewTrackExtraction(itemType), nil
	case mkvtoolnix.ModeAttachments:
		return AttachmentExtraction{}, nil
	default:
		return nil, fmt.Errorf("unknown extraction mode %q", name)
	}
}
