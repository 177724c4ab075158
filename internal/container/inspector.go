package container

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vx/internal/logging"
	"vx/internal/mkvtoolnix"
	"vx/internal/services"
)

// Prober runs the container identification call.
type Prober interface {
	Identify(ctx context.Context, path string) (mkvtoolnix.Identification, error)
}

// Inspector builds ContainerInfo values from probe output.
type Inspector struct {
	prober Prober
	logger *slog.Logger
}

// NewInspector constructs an Inspector backed by prober.
func NewInspector(prober Prober, logger *slog.Logger) *Inspector {
	return &Inspector{
		prober: prober,
		logger: logging.NewComponentLogger(logger, "inspector"),
	}
}

// Inspect probes videoPath and returns its structure.
func (i *Inspector) Inspect(ctx context.Context, videoPath string) (ContainerInfo, error) {
	if i == nil || i.prober == nil {
		return ContainerInfo{}, services.Wrap(services.ErrProbeFailed, videoPath, "inspect", "no prober configured", nil)
	}
	id, err := i.prober.Identify(ctx, videoPath)
	if err != nil {
		if services.KindOf(err) == services.KindToolTimeout || services.KindOf(err) == services.KindProbeFailed {
			return ContainerInfo{}, err
		}
		return ContainerInfo{}, services.Wrap(services.ErrProbeFailed, videoPath, "inspect", "", err)
	}
	if !id.Container.Recognized {
		// mkvmerge reports unreadable files as unrecognized too.
		if _, statErr := os.Stat(videoPath); statErr != nil {
			return ContainerInfo{}, services.Wrap(services.ErrProbeFailed, videoPath, "inspect", "cannot open file", statErr)
		}
		detail := "container not recognized"
		if len(id.Errors) > 0 {
			detail = strings.TrimSpace(id.Errors[0])
		}
		return ContainerInfo{}, services.Wrap(services.ErrUnsupportedContainer, videoPath, "inspect", detail, nil)
	}
	info := FromIdentification(videoPath, id)
	i.logger.Debug("container inspected",
		logging.String(logging.FieldVideo, info.SourceFilename),
		logging.String("container_type", info.ContainerType),
		logging.Int("tracks", len(info.Tracks)),
		logging.Int("attachments", len(info.Attachments)),
	)
	return info, nil
}

// FromIdentification converts probe output into a ContainerInfo without
// checking the recognized flag.
func FromIdentification(videoPath string, id mkvtoolnix.Identification) ContainerInfo {
	name := strings.TrimSpace(id.FileName)
	if name == "" {
		name = videoPath
	}
	info := ContainerInfo{
		SourcePath:     videoPath,
		SourceFilename: filepath.Base(name),
		Recognized:     id.Container.Recognized,
		ContainerType:  id.Container.Type,
		Tracks:         make([]TrackInfo, 0, len(id.Tracks)),
		Attachments:    make([]AttachmentInfo, 0, len(id.Attachments)),
	}
	for _, track := range id.Tracks {
		info.Tracks = append(info.Tracks, TrackInfo{
			ID:       track.ID,
			Type:     track.Type,
			CodecID:  track.Properties.CodecID,
			Codec:    track.Codec,
			Language: track.Properties.Language,
			Name:     track.Properties.TrackName,
			Default:  track.Properties.DefaultTrack,
			Forced:   track.Properties.ForcedTrack,
		})
	}
	for _, att := range id.Attachments {
		info.Attachments = append(info.Attachments, AttachmentInfo{
			ID:             att.ID,
			StoredFilename: att.FileName,
			ContentType:    att.ContentType,
			Size:           att.Size,
		})
	}
	return info
}
