// Load envs from .env
// Load YAML config
// Provide default values

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	//Search criteria
	Keywords     []string `yaml:"keywords"`
	Location     string   `yaml:"location"`
	JobTypeFacet string   `yaml:"job_type_facet"`

	//Run limits
	MaxPagesPerKeyword int `yaml:"max_pages_per_keyword"`
	MinQualityScore    int `yaml:"min_quality_score"`

	//Pacing. The inter-page delay is the only rate limiting the run
	//does against the source site, so it is never zero.
	PageDelayMs    int `yaml:"page_delay_ms"`
	KeywordDelayMs int `yaml:"keyword_delay_ms"`

	//Browser
	Visible bool `yaml:"visible"`

	//Paths
	OutputPath  string `yaml:"output_path"`
	CachePath   string `yaml:"cache_path"`
	ArchivePath string `yaml:"archive_path"`

	//Secrets, env only
	GroqAPIKey     string `yaml:"-" env:"GROQ_API_KEY"`
	GroqModel      string `yaml:"-" env:"GROQ_MODEL"`
	TelegramToken  string `yaml:"-" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"-" env:"TELEGRAM_CHAT_ID"`
}

func Load() *Config {
	_ = godotenv.Load()

	//Load yaml config
	cfg := &Config{}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Printf("Warning: Could not read config.yaml: %v", err)
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			log.Fatalf("Error parsing config.yaml: %v", err)
		}
	}

	//Override with env vars
	cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.GroqModel = os.Getenv("GROQ_MODEL")
	cfg.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")

	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_CHAT_ID: %v", err)
		}
		cfg.TelegramChatID = id
	}

	//Set default values if not set
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = []string{"freelance developer"}
	}
	if cfg.JobTypeFacet == "" {
		cfg.JobTypeFacet = "C" //contract gigs
	}
	if cfg.MaxPagesPerKeyword == 0 {
		cfg.MaxPagesPerKeyword = 2
	}
	if cfg.MinQualityScore == 0 {
		cfg.MinQualityScore = 5
	}
	if cfg.PageDelayMs == 0 {
		cfg.PageDelayMs = 2000
	}
	if cfg.KeywordDelayMs == 0 {
		cfg.KeywordDelayMs = 1000
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = "output/freelance_gigs.xlsx"
	}
	if cfg.CachePath == "" {
		cfg.CachePath = ".cache"
	}
	if cfg.ArchivePath == "" {
		cfg.ArchivePath = "output/gigs.db"
	}
	if cfg.GroqModel == "" {
		cfg.GroqModel = "llama-3.3-70b-versatile"
	}

	return cfg
}
