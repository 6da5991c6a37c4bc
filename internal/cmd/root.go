package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "answer-gateway",
	Short: "HTTP gateway for OpenAI-compatible chat completions",
	Long: `Answer Gateway accepts a chat conversation with caller-supplied credentials,
forwards it to an OpenAI-compatible chat completion endpoint and relays the
result in a uniform success/error envelope.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runServe, // 默认启动服务
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// 全局标志
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml if present)")
	flags.String("host", "0.0.0.0", "server host")
	flags.Int("port", 8080, "server port")
	flags.String("mode", "release", "server mode (debug/release/test)")
	flags.String("log-level", "info", "log level (debug/info/warn/error)")
	flags.String("log-file", "logs/answer-gateway.log", "log file path")
	flags.String("upstream-url", "", "OpenAI-compatible base URL (default https://api.openai.com/v1/)")

	// 绑定到viper
	viper.BindPFlag("server.host", flags.Lookup("host"))
	viper.BindPFlag("server.port", flags.Lookup("port"))
	viper.BindPFlag("server.mode", flags.Lookup("mode"))
	viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	viper.BindPFlag("logging.output", flags.Lookup("log-file"))
	viper.BindPFlag("upstream.base_url", flags.Lookup("upstream-url"))
}

// initConfig reads the optional config file. Only an explicitly named file
// is required to exist; nothing is read from the environment.
func initConfig(cmd *cobra.Command, args []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.answer-gateway")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", viper.ConfigFileUsed())
	return nil
}
