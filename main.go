// Package main provides the entry point for the studypal CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/studypal/studypal/ai"
	"github.com/studypal/studypal/chat"
	"github.com/studypal/studypal/document"
	"github.com/studypal/studypal/internal/store"
	"github.com/studypal/studypal/speech"
	"github.com/studypal/studypal/study"
	"github.com/studypal/studypal/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	style      string
	width      uint
	mouse      bool
	model      string
	baseURL    string
	voice      string
	cacheDir   string
	mockAI     bool
	watchDoc   bool

	rootCmd = &cobra.Command{
		Use:   "studypal [PDF]",
		Short: "Study any PDF with summaries, flashcards, quizzes and a read-aloud tutor",
		Long: paragraph(
			fmt.Sprintf("\nTurn a PDF into %s: a summary, flashcards, a quiz, and a chat tutor that can read everything aloud.", keyword("study aids")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ExactArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: execute,
	}
)

func validateOptions(cmd *cobra.Command) error {
	// grab config values from Viper
	width = viper.GetUint("width")
	mouse = viper.GetBool("mouse")
	style = viper.GetString("style")
	model = viper.GetString("model")
	baseURL = viper.GetString("base_url")
	voice = viper.GetString("voice")
	cacheDir = viper.GetString("cache_dir")
	mockAI = viper.GetBool("mock")
	watchDoc = viper.GetBool("watch")

	if !mockAI && os.Getenv("OPENAI_API_KEY") == "" && viper.GetString("api_key") == "" {
		return errors.New("no API key: set OPENAI_API_KEY, add api_key to the config file, or pass --mock")
	}

	// Detect terminal width
	if !cmd.Flags().Changed("width") {
		if term.IsTerminal(int(os.Stdout.Fd())) && width == 0 {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err == nil {
				width = uint(w) //nolint:gosec
			}
			if width > 120 {
				width = 120
			}
		}
		if width == 0 {
			width = 80
		}
	}
	return nil
}

func execute(_ *cobra.Command, args []string) error {
	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("unable to get absolute path: %w", err)
	}
	return runTUI(path)
}

func runTUI(path string) error {
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.Path = path
	cfg.GlamourMaxWidth = width
	cfg.EnableMouse = mouse
	if style != "" && style != "auto" {
		cfg.GlamourStyle = style
	}
	if model != "" {
		cfg.Model = model
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if voice != "" {
		cfg.Voice = voice
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	if mockAI {
		cfg.MockAI = true
	}
	cfg.WatchDocument = watchDoc
	if cfg.APIKey == "" {
		cfg.APIKey = viper.GetString("api_key")
	}

	deps, cleanup, err := buildDeps(cfg)
	if err != nil {
		cleanup()
		return err
	}
	defer cleanup()

	if _, err := ui.NewProgram(cfg, deps).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

// backend is the set of AI capabilities the UI needs.
type backend interface {
	speech.Synthesizer
	chat.Service
	study.Generator
}

func buildDeps(cfg ui.Config) (ui.Deps, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// Extract the document up front so a bad PDF fails before the
	// alternate screen takes over.
	fmt.Fprintln(os.Stderr, "Extracting text from", filepath.Base(cfg.Path), "…")
	extractor := document.NewExtractor()
	doc, err := extractor.Extract(context.Background(), cfg.Path)
	if err != nil {
		return ui.Deps{}, cleanup, fmt.Errorf("unable to extract document: %w", err)
	}
	if doc.OCR {
		log.Info("used OCR fallback", "path", cfg.Path)
	}

	var brain backend
	if cfg.MockAI {
		brain = newMockBackend()
	} else {
		brain = newClientBackend(cfg)
	}

	// Speech: one playback engine shared by every panel, plus an
	// optional disk layer underneath the per-panel caches.
	var engine *speech.Engine
	if cfg.MockAI {
		engine = speech.NewEngineWith(func() (speech.AudioContext, error) {
			return speech.NewMockContext(), nil
		})
	} else {
		engine = speech.NewEngine()
	}
	cleanups = append(cleanups, engine.Close)

	var speechStore speech.PayloadStore
	if cfg.CacheDir != "" {
		disk, err := store.NewDisk(cfg.CacheDir)
		if err != nil {
			log.Warn("speech cache disabled", "dir", cfg.CacheDir, "error", err)
		} else {
			speechStore = disk
		}
	}

	// Study session and chat grounded in the document.
	session := study.NewSession(doc, brain)
	chatSession, err := brain.CreateSession(context.Background(), session.SystemContext())
	if err != nil {
		return ui.Deps{}, cleanup, fmt.Errorf("unable to create chat session: %w", err)
	}
	chatCtl := chat.NewController(chatSession)

	deps := ui.Deps{
		Session:     session,
		Engine:      engine,
		Synthesizer: brain,
		SpeechStore: speechStore,
		Chat:        chatCtl,
		Reload: func(ctx context.Context) error {
			fresh, err := extractor.Extract(ctx, cfg.Path)
			if err != nil {
				return err
			}
			session.ReplaceDocument(fresh)
			return nil
		},
	}

	if cfg.WatchDocument {
		changed := make(chan struct{}, 1)
		watchCtx, stopWatch := context.WithCancel(context.Background())
		go func() {
			err := document.Watch(watchCtx, cfg.Path, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("document watching stopped", "error", err)
			}
		}()
		deps.DocumentChanged = changed
		cleanups = append(cleanups, stopWatch)
	}

	return deps, cleanup, nil
}

func newClientBackend(cfg ui.Config) backend {
	return ai.New(ai.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		SpeechModel: cfg.SpeechModel,
		Voice:       cfg.Voice,
	})
}

func newMockBackend() backend {
	return ai.NewMock()
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVarP(&style, "style", "s", "auto", "glamour style name or JSON path")
	rootCmd.Flags().UintVarP(&width, "width", "w", 0, "word-wrap at width (set to 0 to disable)")
	rootCmd.Flags().BoolVarP(&mouse, "mouse", "m", false, "enable mouse wheel")
	_ = rootCmd.Flags().MarkHidden("mouse")
	rootCmd.Flags().StringVar(&model, "model", "", "chat/generation model")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "OpenAI-compatible API base URL")
	rootCmd.Flags().StringVar(&voice, "voice", "", "speech voice")
	rootCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "directory for the persistent speech cache")
	rootCmd.Flags().BoolVar(&mockAI, "mock", false, "run offline with canned responses")
	rootCmd.Flags().BoolVar(&watchDoc, "watch", true, "reload when the PDF changes on disk")

	// Config bindings
	_ = viper.BindPFlag("style", rootCmd.Flags().Lookup("style"))
	_ = viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))
	_ = viper.BindPFlag("model", rootCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("base_url", rootCmd.Flags().Lookup("base-url"))
	_ = viper.BindPFlag("voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("cache_dir", rootCmd.Flags().Lookup("cache-dir"))
	_ = viper.BindPFlag("mock", rootCmd.Flags().Lookup("mock"))
	_ = viper.BindPFlag("watch", rootCmd.Flags().Lookup("watch"))

	viper.SetDefault("style", "auto")
	viper.SetDefault("width", 0)
	viper.SetDefault("watch", true)

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "studypal")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "studypal")}, dirs...)
	}

	if c := os.Getenv("STUDYPAL_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("studypal")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("studypal")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "studypal.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
