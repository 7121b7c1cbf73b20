package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "TV_SCANNER_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	senderEmailEnv    = "SENDER_EMAIL"
	recipientEmailEnv = "RECIPIENT_EMAIL"
	appPasswordEnv    = "APP_PASSWORD"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Scanner       ScannerConfig      `yaml:"scanner"`
	Storage       StorageConfig      `yaml:"storage"`
	Export        ExportConfig       `yaml:"export"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Retailers     []RetailerConfig   `yaml:"retailers"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ScannerConfig is the product specification tracked across retailers.
type ScannerConfig struct {
	Brands     []string `yaml:"brands"`
	SizeInches int      `yaml:"sizeInches"`
	// ReportHeading is the title line of the rendered report.
	ReportHeading string `yaml:"reportHeading"`
}

// StorageConfig selects the history backend: a JSON file or Postgres.
type StorageConfig struct {
	Backend     string `yaml:"backend"`
	HistoryPath string `yaml:"historyPath"`
	DSN         string `yaml:"dsn"`
}

// ExportConfig describes the tabular export sink.
type ExportConfig struct {
	CSVPath string `yaml:"csvPath"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Email EmailConfig `yaml:"email"`
}

// EmailConfig wires all data required to send the report. Sender, recipient
// and password come from the environment; their absence only disables the
// notification attempt.
type EmailConfig struct {
	SMTPHost  string `yaml:"smtpHost"`
	SMTPPort  int    `yaml:"smtpPort"`
	Sender    string `yaml:"-"`
	Recipient string `yaml:"-"`
	Password  string `yaml:"-"`
}

// Configured reports whether a delivery attempt should be made at all.
func (e EmailConfig) Configured() bool {
	return e.Sender != "" && e.Recipient != "" && e.Password != ""
}

// SchedulerConfig defines how often the scan reruns in daemon mode. An
// empty interval means one run per invocation.
type SchedulerConfig struct {
	Interval string `yaml:"interval"`
}

// Every resolves the interval string; zero means run once and exit.
func (s SchedulerConfig) Every() time.Duration {
	if s.Interval == "" {
		return 0
	}
	d, err := time.ParseDuration(s.Interval)
	if err != nil || d < 0 {
		log.Printf("config: invalid scheduler interval %q, running once", s.Interval)
		return 0
	}
	return d
}

// SelectorConfig locates listing fields on a retailer page.
type SelectorConfig struct {
	Item     string `yaml:"item"`
	Title    string `yaml:"title"`
	Price    string `yaml:"price"`
	Link     string `yaml:"link"`
	NextPage string `yaml:"nextPage"`
}

// RetailerConfig describes a single retailer with its adapter strategy.
type RetailerConfig struct {
	Name      string            `yaml:"name"`
	Adapter   string            `yaml:"adapter"`
	URL       string            `yaml:"url"`
	Selectors SelectorConfig    `yaml:"selectors"`
	Options   map[string]string `yaml:"options"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. Configuration problems fall back to defaults, never abort.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Retailers) == 0 {
		cfg.Retailers = defaultConfig().Retailers
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Storage.DSN = v
	}

	if v := os.Getenv(senderEmailEnv); v != "" {
		c.Notifications.Email.Sender = v
	}
	if v := os.Getenv(recipientEmailEnv); v != "" {
		c.Notifications.Email.Recipient = v
	}
	if v := os.Getenv(appPasswordEnv); v != "" {
		c.Notifications.Email.Password = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if len(override.Scanner.Brands) > 0 {
		base.Scanner.Brands = override.Scanner.Brands
	}
	if override.Scanner.SizeInches != 0 {
		base.Scanner.SizeInches = override.Scanner.SizeInches
	}
	if override.Scanner.ReportHeading != "" {
		base.Scanner.ReportHeading = override.Scanner.ReportHeading
	}

	if override.Storage.Backend != "" {
		base.Storage.Backend = override.Storage.Backend
	}
	if override.Storage.HistoryPath != "" {
		base.Storage.HistoryPath = override.Storage.HistoryPath
	}
	if override.Storage.DSN != "" {
		base.Storage.DSN = override.Storage.DSN
	}

	if override.Export.CSVPath != "" {
		base.Export.CSVPath = override.Export.CSVPath
	}

	if override.Notifications.Email.SMTPHost != "" {
		base.Notifications.Email.SMTPHost = override.Notifications.Email.SMTPHost
	}
	if override.Notifications.Email.SMTPPort != 0 {
		base.Notifications.Email.SMTPPort = override.Notifications.Email.SMTPPort
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	if len(override.Retailers) > 0 {
		base.Retailers = override.Retailers
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Scanner: ScannerConfig{
			Brands:        []string{"Samsung", "LG"},
			SizeInches:    65,
			ReportHeading: `Daily TV Price Report - Samsung & LG 65" 4K TVs`,
		},
		Storage: StorageConfig{
			Backend:     "file",
			HistoryPath: "price_history.json",
		},
		Export: ExportConfig{CSVPath: "tv_prices.csv"},
		Notifications: NotificationConfig{
			Email: EmailConfig{SMTPHost: "smtp.gmail.com", SMTPPort: 465},
		},
		Retailers: []RetailerConfig{
			{
				Name:    "Incredible Connection",
				Adapter: "listing",
				URL:     "https://www.incredible.co.za/products/tv-audio/tv/4k",
				Selectors: SelectorConfig{
					Item:  "div.product-card",
					Title: "h2.product-title",
					Price: "span.price",
					Link:  "a",
				},
			},
			{
				Name:    "Hirschs",
				Adapter: "listing",
				URL:     "https://www.hirschs.co.za/tv-and-entertainment/tv-s?TV_Size=325",
				Selectors: SelectorConfig{
					Item:  "div.product-item",
					Title: "h3.product-name",
					Price: "span.price",
					Link:  "a",
				},
			},
			{
				Name:    "Takealot",
				Adapter: "listing",
				URL:     "https://www.takealot.com/tv-audio-video/tvs-25953?filter=TVScreenSize:1549.4-1981.2&sort=Relevance",
				Selectors: SelectorConfig{
					Item:  "article.productTile",
					Title: "h2.productTile_title",
					Price: "span.productTile_price",
					Link:  "a",
				},
			},
			{
				Name:    "Game",
				Adapter: "listing",
				URL:     "https://www.game.co.za/Electronics-Entertainment/Television/TVs/l/c/G3428",
				Selectors: SelectorConfig{
					Item:  "div.productListItem",
					Title: "a.productName",
					Price: "span.sellingPrice",
					Link:  "a",
				},
			},
			{
				Name:    "Makro",
				Adapter: "listing",
				URL:     "https://www.makro.co.za/ckf/czl/~cs-7gmdq5lcp2/pr?sid=ckf%2Cczl&collection-tab-name=Televisions+-+60+Inch+Over",
				Selectors: SelectorConfig{
					Item:  "div.productContainer",
					Title: "a.productTitle",
					Price: "span.productPrice",
					Link:  "a",
				},
			},
			{
				Name:    "Loot",
				Adapter: "crawl",
				URL:     "https://www.loot.co.za/search?facet%40TechHtDisplaySize%2F65%22=on&cat=nni",
				Selectors: SelectorConfig{
					Item:     "div.productCard",
					Title:    "h3.productName",
					Price:    "span.productPrice",
					Link:     "a",
					NextPage: "a.pagination-next",
				},
			},
		},
	}
}
