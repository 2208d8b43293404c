package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

type Configuration struct {
	Server  *ServerConfig
	Auth    *AuthConfig
	Session *SessionConfig
	App     *AppConfig
}

type ServerConfig struct {
	BaseURL  string
	VoiceURL string
	Timeout  time.Duration
}

type AuthConfig struct {
	AccessToken     string
	OrganizationKey string
	CredentialsFile string
}

type SessionConfig struct {
	TTL      time.Duration
	ChunkMax int
}

type AppConfig struct {
	Verbose    bool
	HistoryDir string
}

// YamlSource implements cli.ValueSource for a map loaded from YAML
type YamlSource struct {
	data map[string]any
	key  string
}

func (y *YamlSource) Lookup() (string, bool) {
	if v, ok := y.data[y.key]; ok {
		if slice, ok := v.([]any); ok {
			var strs []string
			for _, item := range slice {
				strs = append(strs, fmt.Sprintf("%v", item))
			}
			return strings.Join(strs, ","), true
		}
		return fmt.Sprintf("%v", v), true
	}
	return "", false
}

func (y *YamlSource) String() string   { return "yaml" }
func (y *YamlSource) GoString() string { return "yaml" }

func GetFlags() []cli.Flag {
	// Pre-parse config path
	configPath := getConfigPath()
	var configData map[string]any
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			_ = yaml.Unmarshal(data, &configData)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: failed to read config file %s: %v\n", configPath, err)
		}
	}

	// Helper to create sources: EnvVar > YAML > Default
	src := func(key string, env ...string) cli.ValueSourceChain {
		chain := cli.ValueSourceChain{}
		for _, e := range env {
			chain.Chain = append(chain.Chain, cli.EnvVar(e))
		}
		if configData != nil {
			chain.Chain = append(chain.Chain, &YamlSource{data: configData, key: key})
		}
		return chain
	}

	return []cli.Flag{
		// Config file
		&cli.StringFlag{Name: "config", Aliases: []string{"b"}, Usage: "use the named configuration file", Sources: cli.EnvVars("NEULPUM_CONFIG")},

		// Service endpoints
		&cli.StringFlag{Name: "server", Aliases: []string{"s"}, Value: "http://localhost:8080", Usage: "base URL of the chat service", Sources: src("server", "NEULPUM_SERVER")},
		&cli.StringFlag{Name: "voiceserver", Value: "ws://localhost:8080/voice/stream", Usage: "websocket URL of the voice chat endpoint", Sources: src("voiceserver", "NEULPUM_VOICESERVER")},
		&cli.DurationFlag{Name: "apitimeout", Aliases: []string{"t"}, Value: time.Minute * 2, Usage: "timeout for one full streaming turn", Sources: src("apitimeout", "NEULPUM_APITIMEOUT")},

		// Credentials
		&cli.StringFlag{Name: "accesstoken", Usage: "bearer access token for the chat service", Sources: src("accesstoken", "NEULPUM_ACCESSTOKEN")},
		&cli.StringFlag{Name: "orgkey", Usage: "organization API key", Sources: src("orgkey", "NEULPUM_ORGKEY")},
		&cli.StringFlag{Name: "credentials", Usage: "path to a saved credentials file (overrides accesstoken/orgkey)", Sources: src("credentials", "NEULPUM_CREDENTIALS")},

		// Session behavior
		&cli.DurationFlag{Name: "sessionttl", Aliases: []string{"S"}, Value: time.Minute * 30, Usage: "idle sessions are discarded after this duration", Sources: src("sessionttl", "NEULPUM_SESSIONTTL")},
		&cli.IntFlag{Name: "chunkmax", Aliases: []string{"m"}, Value: 100, Usage: "maximum width of a rendered output line", Sources: src("chunkmax", "NEULPUM_CHUNKMAX")},

		// Local behavior
		&cli.StringFlag{Name: "historydir", Value: ".history", Usage: "directory for local conversation transcripts", Sources: src("historydir", "NEULPUM_HISTORYDIR")},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"V"}, Usage: "enable verbose logging of sessions and streams", Sources: src("verbose", "NEULPUM_VERBOSE")},
	}
}

func getConfigPath() string {
	// Check env first
	if v := os.Getenv("NEULPUM_CONFIG"); v != "" {
		return v
	}
	// Check args
	for i, arg := range os.Args {
		if arg == "--config" || arg == "-b" {
			if i+1 < len(os.Args) {
				return os.Args[i+1]
			}
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func NewConfiguration(c *cli.Command) *Configuration {
	return &Configuration{
		Server: &ServerConfig{
			BaseURL:  strings.TrimRight(c.String("server"), "/"),
			VoiceURL: c.String("voiceserver"),
			Timeout:  c.Duration("apitimeout"),
		},
		Auth: &AuthConfig{
			AccessToken:     c.String("accesstoken"),
			OrganizationKey: c.String("orgkey"),
			CredentialsFile: c.String("credentials"),
		},
		Session: &SessionConfig{
			TTL:      c.Duration("sessionttl"),
			ChunkMax: int(c.Int("chunkmax")),
		},
		App: &AppConfig{
			Verbose:    c.Bool("verbose"),
			HistoryDir: c.String("historydir"),
		},
	}
}

func (c *Configuration) PrintConfig() {
	fmt.Printf("server: %s\n", c.Server.BaseURL)
	fmt.Printf("voiceserver: %s\n", c.Server.VoiceURL)
	fmt.Printf("apitimeout: %s\n", c.Server.Timeout)
	fmt.Printf("accesstoken: %s\n", maskSecret(c.Auth.AccessToken))
	fmt.Printf("orgkey: %s\n", maskSecret(c.Auth.OrganizationKey))
	fmt.Printf("credentials: %s\n", c.Auth.CredentialsFile)
	fmt.Printf("sessionttl: %s\n", c.Session.TTL)
	fmt.Printf("chunkmax: %d\n", c.Session.ChunkMax)
	fmt.Printf("historydir: %s\n", c.App.HistoryDir)
	fmt.Printf("verbose: %t\n", c.App.Verbose)
}

func maskSecret(s string) string {
	if len(s) <= 3 {
		return s
	}
	return strings.Repeat("*", len(s)-3) + s[len(s)-3:]
}
