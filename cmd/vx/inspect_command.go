package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"vx/internal/container"
	"vx/internal/planner"
	"vx/internal/preflight"
	"vx/internal/services"
)

type inspectView struct {
	Video     string                   `json:"video" yaml:"video"`
	Container *container.ContainerInfo `json:"container,omitempty" yaml:"container,omitempty"`
	Tracks    []trackView              `json:"tracks,omitempty" yaml:"tracks,omitempty"`
	Error     string                   `json:"error,omitempty" yaml:"error,omitempty"`
	Kind      services.Kind            `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
}

type trackView struct {
	ID        int    `json:"id" yaml:"id"`
	Extension string `json:"extension,omitempty" yaml:"extension,omitempty"`
	Language  string `json:"language_name,omitempty" yaml:"language_name,omitempty"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "inspect VIDEO...",
		Aliases: []string{"i"},
		Short:   "List a container's tracks and attachments",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := normalizeOutput(output)
			if err != nil {
				return err
			}
			tc, err := ctx.toolchain()
			if err != nil {
				return err
			}
			if _, err := tc.gate.CheckAll(cmd.Context(), preflight.Requirements(tc.cfg, true)); err != nil {
				return err
			}

			codecs := planner.DefaultCodecTable()
			views := make([]inspectView, 0, len(args))
			failed := false
			for _, video := range args {
				view := inspectView{Video: video}
				info, err := tc.inspector.Inspect(cmd.Context(), video)
				if err != nil {
					failed = true
					view.Error = err.Error()
					view.Kind = services.KindOf(err)
				} else {
					view.Container = &info
					for _, tr := range info.Tracks {
						tv := trackView{ID: tr.ID, Language: languageName(tr.Language)}
						if ext, ok := codecs.Extension(tr.CodecID); ok {
							tv.Extension = ext
						}
						view.Tracks = append(view.Tracks, tv)
					}
				}
				views = append(views, view)
			}

			if format != outputText {
				if err := writeStructured(cmd, format, views); err != nil {
					return err
				}
			} else {
				renderInspect(cmd, views)
			}
			if failed {
				return &exitError{code: 1}
			}
			return nil
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func renderInspect(cmd *cobra.Command, views []inspectView) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	for i, view := range views {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if view.Container == nil {
			fmt.Fprintln(out, renderStatusLine(view.Video, len(view.Video), statusError, fmt.Sprintf("%s: %s", view.Kind, view.Error), colorize))
			continue
		}
		info := view.Container
		fmt.Fprintf(out, "%s (%s)\n", info.SourceFilename, fallback(info.ContainerType, "unknown container"))

		if len(info.Tracks) > 0 {
			rows := make([][]string, 0, len(info.Tracks))
			for j, tr := range info.Tracks {
				rows = append(rows, []string{
					strconv.Itoa(tr.ID),
					tr.Type,
					tr.CodecID,
					fallback(view.Tracks[j].Language, tr.Language),
					tr.Name,
					trackFlags(tr),
					outputColumn(tr, view.Tracks[j].Extension),
				})
			}
			fmt.Fprintln(out, renderTable("Tracks",
				[]string{"ID", "Type", "Codec", "Language", "Name", "Flags", "Output"},
				rows,
				[]columnAlignment{alignRight},
			))
		} else {
			fmt.Fprintln(out, "No tracks")
		}

		if len(info.Attachments) > 0 {
			rows := make([][]string, 0, len(info.Attachments))
			for _, att := range info.Attachments {
				rows = append(rows, []string{
					strconv.Itoa(att.ID),
					att.StoredFilename,
					att.ContentType,
					humanize.Bytes(uint64(max(att.Size, 0))),
				})
			}
			fmt.Fprintln(out, renderTable("Attachments",
				[]string{"ID", "File", "Type", "Size"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
			))
		} else {
			fmt.Fprintln(out, "No attachments")
		}
	}
}

// languageName turns an ISO 639 code into an English display name.
func languageName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" || code == "und" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return display.English.Tags().Name(tag)
}

func trackFlags(tr container.TrackInfo) string {
	var flags []string
	if tr.Default {
		flags = append(flags, "default")
	}
	if tr.Forced {
		flags = append(flags, "forced")
	}
	return strings.Join(flags, ",")
}

func outputColumn(tr container.TrackInfo, ext string) string {
	if tr.Type != planner.DefaultItemType {
		return "-"
	}
	if ext == "" {
		return "unsupported"
	}
	return "." + ext
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
