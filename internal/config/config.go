package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Task     TaskConfig     `mapstructure:"task"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=4,lte=31"`
}

// LLMConfig contains the content-provider integration settings.
type LLMConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName          string `mapstructure:"model_name"     validate:"required"`
	PromptTemplatePath string `mapstructure:"prompt_template_path" validate:"required"`
	MaxRetries         int    `mapstructure:"max_retries"    validate:"gte=0"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// AudioConfig locates the CDN manifest the audio resolver loads.
type AudioConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	ManifestPath string `mapstructure:"manifest_path"`
}

// EngineConfig tunes the practice engine: cycle timing, replay pacing,
// the belt-tier thresholds, and the eternal-promotion rule. All of the
// policy numbers live here rather than as hard-coded constants.
type EngineConfig struct {
	PauseMs            int     `mapstructure:"pause_ms"              validate:"gte=0"`
	InterItemDelayMs   int     `mapstructure:"inter_item_delay_ms"   validate:"gte=0"`
	ReplayBaseDelayMs  int     `mapstructure:"replay_base_delay_ms"  validate:"gte=0"`
	CacheSchemaVersion int     `mapstructure:"cache_schema_version"  validate:"gte=0"`
	MasteryStep        float64 `mapstructure:"mastery_step"          validate:"gte=0,lte=1"`
	EternalMinPractice int     `mapstructure:"eternal_min_practices" validate:"gte=0"`
	EternalMinMastery  float64 `mapstructure:"eternal_min_mastery"   validate:"gte=0,lte=1"`

	// BeltThresholds are the minimum unit counts for the seven tiers
	// above white, in ascending tier order.
	BeltThresholds []int `mapstructure:"belt_thresholds" validate:"omitempty,len=7"`
}

// TaskConfig contains the background task runner settings.
type TaskConfig struct {
	QueueSize           int `mapstructure:"queue_size"             validate:"gt=0"`
	WorkerCount         int `mapstructure:"worker_count"           validate:"gt=0"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"gt=0"`
}
