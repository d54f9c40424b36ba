package main

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"formpost/backend"
	"formpost/config"
	"formpost/display"
	"formpost/handler"
	"formpost/manager"
)

func newSessionCmd() *cobra.Command {
	var (
		endpoint string
		watch    bool
	)

	cmd := &cobra.Command{
		Use:   "session [form]",
		Short: "Submit every line read from stdin as a payload, without waiting for earlier submissions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := formArg(args)

			store, err := openStore(name, endpoint)
			if err != nil {
				return err
			}
			if watch && endpoint == "" {
				store.Watch()
			}
			cfg := store.Config()

			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			queue := display.NewQueue(display.NewTerminal(cmd.OutOrStdout(), cliArgs.ColorMode(cfg.Color)), 0)
			defer queue.Close()

			// Bind once up front so setup errors surface before any input is read.
			form, err := handler.Bind(store, name, handler.StaticInput(""), queue, client)
			if err != nil {
				return err
			}
			if form == nil {
				log.Info("No form configured")
				return nil
			}

			inFlight := manager.NewInFlightManager(cfg.Forms)
			defer inFlight.Shutdown()
			store.OnReload(func(c config.Config) {
				inFlight.Configure(c.Forms)
			})

			var wg sync.WaitGroup
			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				// The form may have been removed by a config reload.
				submission, err := handler.Bind(store, form.Name, handler.StaticInput(line), queue, client)
				if err != nil {
					queue.Show(backend.Failure(err))
					continue
				}
				submission.WithInFlightManager(inFlight)

				wg.Add(1)
				go func() {
					defer wg.Done()
					submission.Submit(cmd.Context())
				}()
			}
			wg.Wait()
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&endpoint, "endpoint", "", "endpoint to post to, overriding the form's configuration")
	flags.BoolVar(&watch, "watch", true, "reload the config file when it changes")

	return cmd
}
