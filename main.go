package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"formpost/backend"
	"formpost/config"
	"formpost/logging"
)

var cliArgs config.CliConfig

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "formpost",
		Short:         "Post a form's JSON payload to its endpoint and display the response",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cliArgs.Debug {
				logging.InitLogger(logrus.DebugLevel)
			}
			if cliArgs.Color && cliArgs.NoColor {
				return fmt.Errorf("--color and --no-color cannot be used together")
			}
			return nil
		},
	}
	cliArgs.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newSubmitCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newFormsCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "formpost: %v\n", err)
		os.Exit(1)
	}
}

// configFile returns the config file to load: --config, then
// $FORMPOST_CONFIG, then ./formpost.yaml when it exists.
func configFile() string {
	if cliArgs.ConfigFile != "" {
		return cliArgs.ConfigFile
	}
	if path := os.Getenv("FORMPOST_CONFIG"); path != "" {
		return path
	}
	if info, err := os.Stat("formpost.yaml"); err == nil && !info.IsDir() {
		return "formpost.yaml"
	}
	return ""
}

// openStore loads the configuration, from the config file when there is one
// and from FORMPOST_* environment variables either way. A non-empty endpoint
// overrides the endpoint of the selected form, adding the form when it does
// not exist.
func openStore(name, endpoint string) (*config.Store, error) {
	var (
		store *config.Store
		err   error
	)
	if path := configFile(); path != "" {
		store, err = config.LoadConfig(path)
	} else {
		store, err = config.LoadEnv()
	}
	if err != nil {
		return nil, err
	}
	if endpoint == "" {
		return store, nil
	}
	return config.NewStore(withEndpoint(store.Config(), name, endpoint))
}

func withEndpoint(cfg config.Config, name, endpoint string) config.Config {
	for i := range cfg.Forms {
		if cfg.Forms[i].Name == name || (name == "" && i == 0) {
			cfg.Forms[i].Endpoint = endpoint
			return cfg
		}
	}
	if name == "" {
		name = "default"
	}
	cfg.Forms = append(cfg.Forms, config.FormConfig{Name: name, Endpoint: endpoint})
	return cfg
}

func newClient(cfg config.Config) (*backend.Client, error) {
	return backend.NewBackendClient(cfg.BaseURL, cfg.Timeout)
}

func formArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
