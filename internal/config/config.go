package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. JIYU_LOG_LEVEL.
const EnvPrefix = "JIYU"

// Kind selects which component carries out an action.
type Kind string

const (
	// KindKill terminates every process whose image name equals Target.
	KindKill Kind = "kill"
	// KindElevated runs Target through the shell with elevated privileges.
	KindElevated Kind = "elevated"
)

// Action is one button of the utility.
type Action struct {
	ID      string `mapstructure:"id" yaml:"id"`
	Label   string `mapstructure:"label" yaml:"label"`
	Tooltip string `mapstructure:"tooltip" yaml:"tooltip"`
	Kind    Kind   `mapstructure:"kind" yaml:"kind"`
	Target  string `mapstructure:"target" yaml:"target"`

	// Status texts shown while running and after completion.
	Pending string `mapstructure:"pending" yaml:"pending"`
	Success string `mapstructure:"success" yaml:"success"`
	Failure string `mapstructure:"failure" yaml:"failure"`
}

// UI holds presentation texts and sizing.
type UI struct {
	Title        string  `mapstructure:"title" yaml:"title"`
	Description  string  `mapstructure:"description" yaml:"description"`
	Footer       string  `mapstructure:"footer" yaml:"footer"`
	Ready        string  `mapstructure:"ready" yaml:"ready"`
	SuccessTitle string  `mapstructure:"success_title" yaml:"success_title"`
	FailureTitle string  `mapstructure:"failure_title" yaml:"failure_title"`
	ExitLabel    string  `mapstructure:"exit_label" yaml:"exit_label"`
	ExitTitle    string  `mapstructure:"exit_title" yaml:"exit_title"`
	ExitPrompt   string  `mapstructure:"exit_prompt" yaml:"exit_prompt"`
	Scale        float64 `mapstructure:"scale" yaml:"scale"`
}

// Config holds all configuration for the utility.
type Config struct {
	// Shell is the interpreter for elevated actions. Empty selects the platform default.
	Shell string `mapstructure:"shell" yaml:"shell"`

	// Logging
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	UI      UI       `mapstructure:"ui" yaml:"ui"`
	Actions []Action `mapstructure:"actions" yaml:"actions"`
}

// DefaultActions returns the three built-in actions.
func DefaultActions() []Action {
	return []Action{
		{
			ID:      "close-student",
			Label:   "关闭极域",
			Tooltip: "强制关闭StudentMain.exe进程",
			Kind:    KindKill,
			Target:  "StudentMain.exe",
			Pending: "正在关闭极域...",
			Success: "极域已成功关闭",
			Failure: "无法关闭极域进程",
		},
		{
			ID:      "stop-netfilter",
			Label:   "卸载网络驱动",
			Tooltip: "执行sc stop tdnetfilter命令",
			Kind:    KindElevated,
			Target:  "/c sc stop tdnetfilter",
			Pending: "正在卸载网络驱动...",
			Success: "网络驱动已成功卸载",
			Failure: "无法卸载网络驱动",
		},
		{
			ID:      "close-masterhelper",
			Label:   "关闭网络限制",
			Tooltip: "强制关闭MasterHelper.exe进程",
			Kind:    KindKill,
			Target:  "MasterHelper.exe",
			Pending: "正在关闭网络限制...",
			Success: "网络限制已成功关闭",
			Failure: "无法关闭网络限制进程",
		},
	}
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		LogLevel: "info",
		UI: UI{
			Title:        "极域解除工具",
			Description:  "本工具可以帮助解除极域电子教室的限制",
			Footer:       "© 2025 极域助手 - 仅供学习交流使用",
			Ready:        "准备就绪",
			SuccessTitle: "成功",
			FailureTitle: "错误",
			ExitLabel:    "退出",
			ExitTitle:    "退出确认",
			ExitPrompt:   "确定要退出程序吗？",
			Scale:        1,
		},
		Actions: DefaultActions(),
	}
}

// Load reads configuration from cfgFile, or from jiyu.yaml in the working directory or
// the user config directory when cfgFile is empty. A .env file in the working directory
// is loaded first; JIYU_* environment variables override file values.
func Load(cfgFile string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("jiyu")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "jiyu"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.UI.Scale = ClampScale(cfg.UI.Scale)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("shell", d.Shell)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("ui.title", d.UI.Title)
	v.SetDefault("ui.description", d.UI.Description)
	v.SetDefault("ui.footer", d.UI.Footer)
	v.SetDefault("ui.ready", d.UI.Ready)
	v.SetDefault("ui.success_title", d.UI.SuccessTitle)
	v.SetDefault("ui.failure_title", d.UI.FailureTitle)
	v.SetDefault("ui.exit_label", d.UI.ExitLabel)
	v.SetDefault("ui.exit_title", d.UI.ExitTitle)
	v.SetDefault("ui.exit_prompt", d.UI.ExitPrompt)
	v.SetDefault("ui.scale", d.UI.Scale)
	v.SetDefault("actions", d.Actions)
}

// ClampScale keeps the UI from shrinking below its base size.
func ClampScale(scale float64) float64 {
	if scale < 1 {
		return 1
	}
	return scale
}

// Validate checks the action list.
func (c *Config) Validate() error {
	if len(c.Actions) == 0 {
		return errors.New("config: at least one action is required")
	}
	seen := make(map[string]bool, len(c.Actions))
	for i, a := range c.Actions {
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("config: action %d has no id", i)
		}
		if seen[a.ID] {
			return fmt.Errorf("config: duplicate action id %q", a.ID)
		}
		seen[a.ID] = true
		switch a.Kind {
		case KindKill, KindElevated:
		default:
			return fmt.Errorf("config: action %q has unknown kind %q", a.ID, a.Kind)
		}
		if a.Target == "" {
			return fmt.Errorf("config: action %q has no target", a.ID)
		}
	}
	return nil
}

// Find returns the action with the given id.
func (c *Config) Find(id string) (Action, bool) {
	for _, a := range c.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}
