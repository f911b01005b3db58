package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Tomyyy-1337/LichessBot/engine"
	"github.com/Tomyyy-1337/LichessBot/lichess"
)

const EnvPrefix = "LICHESSBOT"

type Config struct {
	APIKey        string
	APIHost       string
	TablebaseHost string

	ThinkTime       time.Duration
	StartDepth      int
	MaxDepth        int
	Workers         int
	DumpSearchStats bool

	UseTablebase    bool
	TablebasePieces int

	BotName     string
	ChallengeAI bool
	AILevel     int
	AIColor     string

	ListenAddr string

	Debug     bool
	LogFormat string

	// Positional arguments left after flag parsing.
	Args []string
}

// Keys are shared by flags (with dashes), the config file and the environment
// (upper case, with the LICHESSBOT_ prefix).
type setting struct {
	key   string
	flag  string
	value any
	usage string
}

var settings = []setting{
	{"config", "config", "", "path to a YAML config file"},
	{"api_key", "api-key", "", "the Lichess API key to use for this bot's requests (or LICHESS_API_KEY)"},
	{"api_host", "api-host", lichess.DefaultAPIHost, "lichess API host"},
	{"tablebase_host", "tablebase-host", lichess.DefaultTablebaseHost, "lichess tablebase host"},
	{"think_time", "think-time", engine.DefaultThinkTime, "soft search budget per root move"},
	{"start_depth", "start-depth", engine.DefaultStartDepth, "first iterative deepening depth"},
	{"max_depth", "max-depth", 0, "deepest iterative deepening depth, 0 for no limit"},
	{"workers", "workers", runtime.NumCPU(), "root move worker pool size"},
	{"dump_search_stats", "dump-search-stats", false, "log search statistics after every move"},
	{"use_tablebase", "use-tablebase", true, "use the lichess tablebase in the endgame"},
	{"tablebase_pieces", "tablebase-pieces", 7, "most pieces, kings included, for a tablebase lookup"},
	{"bot_name", "bot-name", "", "lichess username of the bot, looked up from the token when empty"},
	{"challenge_ai", "challenge-ai", false, "challenge the lichess AI on startup"},
	{"ai_level", "ai-level", lichess.DefaultAIChallenge.Level, "stockfish level for AI challenges (1-8)"},
	{"ai_color", "ai-color", lichess.DefaultAIChallenge.Color, "our color in AI challenges"},
	{"listen_addr", "listen-addr", ":8080", "analysis API listen address"},
	{"debug", "debug", false, "debug logging"},
	{"log_format", "log-format", "json", "json or console"},
}

func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("lichessbot", pflag.ContinueOnError)
	for _, s := range settings {
		switch value := s.value.(type) {
		case string:
			fs.String(s.flag, value, s.usage)
		case int:
			fs.Int(s.flag, value, s.usage)
		case bool:
			fs.Bool(s.flag, value, s.usage)
		case time.Duration:
			fs.Duration(s.flag, value, s.usage)
		}
	}
	err := fs.Parse(args)
	if err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, s := range settings {
		v.SetDefault(s.key, s.value)
		err = v.BindPFlag(s.key, fs.Lookup(s.flag))
		if err != nil {
			return err
		}
	}
	err = v.BindEnv("api_key", EnvPrefix+"_API_KEY", "LICHESS_API_KEY")
	if err != nil {
		return err
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		err = v.ReadInConfig()
		if err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	c.APIKey = v.GetString("api_key")
	c.APIHost = v.GetString("api_host")
	c.TablebaseHost = v.GetString("tablebase_host")
	c.ThinkTime = v.GetDuration("think_time")
	c.StartDepth = v.GetInt("start_depth")
	c.MaxDepth = v.GetInt("max_depth")
	c.Workers = v.GetInt("workers")
	c.DumpSearchStats = v.GetBool("dump_search_stats")
	c.UseTablebase = v.GetBool("use_tablebase")
	c.TablebasePieces = v.GetInt("tablebase_pieces")
	c.BotName = v.GetString("bot_name")
	c.ChallengeAI = v.GetBool("challenge_ai")
	c.AILevel = v.GetInt("ai_level")
	c.AIColor = v.GetString("ai_color")
	c.ListenAddr = v.GetString("listen_addr")
	c.Debug = v.GetBool("debug")
	c.LogFormat = strings.ToLower(v.GetString("log_format"))
	c.Args = fs.Args()

	return c.validate()
}

func (c *Config) validate() error {
	if c.ThinkTime <= 0 {
		return fmt.Errorf("think_time must be positive, got %s", c.ThinkTime)
	}
	if c.StartDepth < engine.MinDepth || c.StartDepth > engine.MaxDepth {
		return fmt.Errorf("start_depth must be between %d and %d, got %d", engine.MinDepth, engine.MaxDepth, c.StartDepth)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.AILevel < 1 || c.AILevel > 8 {
		return fmt.Errorf("ai_level must be between 1 and 8, got %d", c.AILevel)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console, got %q", c.LogFormat)
	}
	return nil
}

func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		ThinkTime:       c.ThinkTime,
		StartDepth:      c.StartDepth,
		MaxDepth:        c.MaxDepth,
		Workers:         c.Workers,
		DumpSearchStats: c.DumpSearchStats,
	}
}

func (c *Config) ClientOptions() []lichess.Option {
	return []lichess.Option{
		lichess.WithAPIHost(c.APIHost),
		lichess.WithTablebaseHost(c.TablebaseHost),
	}
}

func (c *Config) AIChallenge() lichess.AIChallenge {
	return lichess.AIChallenge{Level: c.AILevel, Color: c.AIColor, Variant: lichess.StandardVariant}
}

// SetupLogging sets the global zerolog level and output.
func (c *Config) SetupLogging() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if c.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if c.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
