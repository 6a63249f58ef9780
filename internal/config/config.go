package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the bot reads from the environment.
type Config struct {
	// Token is the Discord bot token.
	Token string `env:"TUTORBOT_TOKEN,required"`
	// GuildID scopes slash-command registration to one guild; empty
	// registers globally (global commands take up to an hour to appear).
	GuildID string `env:"TUTORBOT_GUILD_ID" envDefault:""`
	// DBPath selects the SQLite store; empty keeps everything in memory.
	DBPath string `env:"TUTORBOT_DB_PATH" envDefault:""`
	// MigrationsDir overrides the embedded SQL migrations.
	MigrationsDir string `env:"TUTORBOT_MIGRATIONS_DIR" envDefault:""`
	// TutorRoles are the role IDs allowed to run tutor-only commands.
	// Empty disables the gate, which is only sensible on a dev server.
	TutorRoles []string `env:"TUTORBOT_TUTOR_ROLES" envSeparator:","`
	// StudentRole is the role granted by /give-student-role.
	StudentRole string `env:"TUTORBOT_STUDENT_ROLE" envDefault:""`
	LogLevel    string `env:"TUTORBOT_LOG_LEVEL" envDefault:"info"`
}

// Load reads .env when present, then parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
