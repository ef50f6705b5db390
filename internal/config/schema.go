package config

// Config holds bookforge configuration.
// Stored at: ~/.bookforge/config.yaml
type Config struct {
	OpenAI   OpenAICfg   `mapstructure:"openai" yaml:"openai"`
	Author   AuthorCfg   `mapstructure:"author" yaml:"author"`
	Book     BookCfg     `mapstructure:"book" yaml:"book"`
	Pricing  PricingCfg  `mapstructure:"pricing" yaml:"pricing"`
	Airtable AirtableCfg `mapstructure:"airtable" yaml:"airtable"`
	Drive    DriveCfg    `mapstructure:"drive" yaml:"drive"`
	Portal   PortalCfg   `mapstructure:"portal" yaml:"portal"`
}

// OpenAICfg configures the generation client.
type OpenAICfg struct {
	APIKey         string `mapstructure:"api_key" yaml:"api_key"` // Supports ${ENV_VAR} syntax
	TextModel      string `mapstructure:"text_model" yaml:"text_model"`
	ChapterModel   string `mapstructure:"chapter_model" yaml:"chapter_model"` // Defaults to text_model
	ImageModel     string `mapstructure:"image_model" yaml:"image_model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// AuthorCfg names the pen name the books are published under.
type AuthorCfg struct {
	Name      string `mapstructure:"name" yaml:"name"`
	Publisher string `mapstructure:"publisher" yaml:"publisher"`
}

// BookCfg holds per-book production defaults.
type BookCfg struct {
	Language string   `mapstructure:"language" yaml:"language"` // ISO 639-1 code
	Formats  []string `mapstructure:"formats" yaml:"formats"`   // "epub", "pdf", "mobi"
}

// PricingCfg holds default list prices for the distribution portal.
type PricingCfg struct {
	USD float64 `mapstructure:"usd" yaml:"usd"`
	EUR float64 `mapstructure:"eur" yaml:"eur"`
}

// AirtableCfg configures production tracking. Tracking is skipped with
// a warning when api_key or base_id is empty.
type AirtableCfg struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"` // Supports ${ENV_VAR} syntax
	BaseID string `mapstructure:"base_id" yaml:"base_id"`
	Table  string `mapstructure:"table" yaml:"table"`
}

// DriveCfg configures Google Drive uploads.
type DriveCfg struct {
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file"`
	TokenFile       string `mapstructure:"token_file" yaml:"token_file"`
	SharePublic     bool   `mapstructure:"share_public" yaml:"share_public"`
}

// PortalCfg configures the distribution portal automation.
type PortalCfg struct {
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	Username       string `mapstructure:"username" yaml:"username"` // Supports ${ENV_VAR} syntax
	Password       string `mapstructure:"password" yaml:"password"` // Supports ${ENV_VAR} syntax
	Headless       bool   `mapstructure:"headless" yaml:"headless"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OpenAI: OpenAICfg{
			APIKey:         "${OPENAI_API_KEY}",
			TextModel:      "gpt-4o",
			ImageModel:     "dall-e-3",
			TimeoutSeconds: 300,
		},
		Author: AuthorCfg{
			Name:      "J. M. Everhart",
			Publisher: "JM Publishing",
		},
		Book: BookCfg{
			Language: "en",
			Formats:  []string{"epub", "pdf", "mobi"},
		},
		Pricing: PricingCfg{
			USD: 4.99,
			EUR: 4.49,
		},
		Airtable: AirtableCfg{
			APIKey: "${AIRTABLE_API_KEY}",
			Table:  "Books",
		},
		Drive: DriveCfg{
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
			SharePublic:     true,
		},
		Portal: PortalCfg{
			Username:       "${PORTAL_USERNAME}",
			Password:       "${PORTAL_PASSWORD}",
			Headless:       true,
			TimeoutSeconds: 180,
		},
	}
}
