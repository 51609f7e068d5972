package config

const (
	defaultLogDir                = "~/.local/share/stockwell/logs"
	defaultJournalPath           = "~/.local/share/stockwell/journal.db"
	defaultLockPath              = "~/.local/share/stockwell/import.lock"
	defaultLibraryStatus         = "ip"
	defaultPermissionGroup       = "Library Manager"
	defaultCatalogRequestTimeout = 60
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Catalog: Catalog{
			LibraryStatus:   defaultLibraryStatus,
			PermissionGroup: defaultPermissionGroup,
			RequestTimeout:  defaultCatalogRequestTimeout,
		},
		Library: Library{},
		Paths: Paths{
			LogDir:      defaultLogDir,
			JournalPath: defaultJournalPath,
			LockPath:    defaultLockPath,
		},
		Transcode: Transcode{
			FFmpegBinary: "ffmpeg",
			Thumbnails:   true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
