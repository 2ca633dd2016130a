package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Path of the PDF under study.
	Path string

	GlamourStyle    string `env:"GLAMOUR_STYLE"`
	GlamourMaxWidth uint
	EnableMouse     bool

	// AI backend settings.
	APIKey      string `env:"OPENAI_API_KEY"`
	BaseURL     string `env:"STUDYPAL_BASE_URL"`
	Model       string `env:"STUDYPAL_MODEL"`
	SpeechModel string `env:"STUDYPAL_SPEECH_MODEL"`
	Voice       string `env:"STUDYPAL_VOICE"`

	// MockAI swaps the backend for canned responses. Useful offline and
	// for demos.
	MockAI bool `env:"STUDYPAL_MOCK"`

	// CacheDir holds synthesized speech across runs. Empty disables the
	// disk layer.
	CacheDir string `env:"STUDYPAL_CACHE_DIR"`

	// WatchDocument reloads the session when the PDF changes on disk.
	WatchDocument bool `env:"STUDYPAL_WATCH" envDefault:"true"`
}
