// Package config loads the process-wide configuration once at startup. The
// resulting struct is immutable and passed by injection; components never
// read configuration ambiently.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	// MemberName is the subject's display name in report headers.
	MemberName string
	// TaskLists are the task-list names to aggregate, in order.
	TaskLists []string
	// SheetDBPath is the backing-store identifier (SQLite file path).
	SheetDBPath string

	// Timezone is the fixed IANA timezone for all date resolution.
	Timezone string
	// Port is the HTTP listen port.
	Port int

	RedisAddr string
	RedisDB   int

	// CalendarID selects the calendar queried for the schedule section.
	CalendarID      string
	GoogleAPIToken  string
	TasksBaseURL    string
	CalendarBaseURL string

	// LockWait bounds how long a weekly request waits for the upsert lock.
	LockWait time.Duration

	LogLevel string
}

// Load reads configuration from goal-report.yaml (optional) and GOALREPORT_*
// environment variables. Missing required settings are a startup-time fatal
// condition, surfaced as an error here.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("goal-report")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/goal-report")

	v.SetEnvPrefix("GOALREPORT")
	v.AutomaticEnv()

	v.SetDefault("timezone", "Asia/Seoul")
	v.SetDefault("port", 8100)
	v.SetDefault("redis_addr", "127.0.0.1:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("calendar_id", "primary")
	v.SetDefault("lock_wait", "20s")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		MemberName:      v.GetString("member_name"),
		TaskLists:       splitLists(v.GetString("task_lists")),
		SheetDBPath:     v.GetString("sheet_db_path"),
		Timezone:        v.GetString("timezone"),
		Port:            v.GetInt("port"),
		RedisAddr:       v.GetString("redis_addr"),
		RedisDB:         v.GetInt("redis_db"),
		CalendarID:      v.GetString("calendar_id"),
		GoogleAPIToken:  v.GetString("google_api_token"),
		TasksBaseURL:    v.GetString("tasks_base_url"),
		CalendarBaseURL: v.GetString("calendar_base_url"),
		LockWait:        v.GetDuration("lock_wait"),
		LogLevel:        v.GetString("log_level"),
	}

	var missing []string
	if cfg.MemberName == "" {
		missing = append(missing, "member_name")
	}
	if len(cfg.TaskLists) == 0 {
		missing = append(missing, "task_lists")
	}
	if cfg.SheetDBPath == "" {
		missing = append(missing, "sheet_db_path")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// splitLists parses the comma-separated task-list setting, trimming each
// name and dropping empties.
func splitLists(raw string) []string {
	var lists []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			lists = append(lists, name)
		}
	}
	return lists
}
