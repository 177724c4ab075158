package config

const (
	defaultMkvmergeBinary   = "mkvmerge"
	defaultMkvextractBinary = "mkvextract"
	defaultStateDir         = "~/.local/share/vx"
	defaultJournalFile      = "history.db"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultWorkers          = 1
	maxWorkers              = 16
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			Mkvmerge:   defaultMkvmergeBinary,
			Mkvextract: defaultMkvextractBinary,
		},
		Extraction: Extraction{
			Workers: defaultWorkers,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
