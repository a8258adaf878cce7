package config

const (
	defaultStateDir       = "~/.local/share/phototag"
	defaultLogDir         = "~/.local/share/phototag/logs"
	defaultOllamaBaseURL  = "http://localhost:11434"
	defaultOllamaModel    = "llava"
	defaultOllamaTimeout  = 300
	defaultOllamaRetries  = 2
	defaultTemperature    = 0.1
	defaultMaxTokens      = 100
	defaultTaggingMode    = "auto"
	defaultTagLanguage    = "english"
	defaultMaxTags        = 15
	defaultTagSuffix      = "_ai"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// defaultExtensions lists the raster and RAW formats a folder scan picks up.
var defaultExtensions = []string{
	".jpg", ".jpeg", ".png", ".tif", ".tiff",
	".cr2", ".cr3", ".nef", ".arw", ".dng", ".raf",
	".orf", ".rw2", ".pef", ".srw",
}

// Default returns the repository default configuration.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Ollama: Ollama{
			BaseURL:        defaultOllamaBaseURL,
			Model:          defaultOllamaModel,
			TimeoutSeconds: defaultOllamaTimeout,
			MaxRetries:     defaultOllamaRetries,
			Temperature:    defaultTemperature,
			MaxTokens:      defaultMaxTokens,
		},
		Tagging: Tagging{
			Mode:          defaultTaggingMode,
			Language:      defaultTagLanguage,
			MaxTags:       defaultMaxTags,
			Suffix:        defaultTagSuffix,
			SuffixEnabled: true,
		},
		Destinations: Destinations{
			Catalog: true,
			Sidecar: true,
		},
		Processing: Processing{
			SkipOnError: true,
			Extensions:  append([]string{}, defaultExtensions...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
