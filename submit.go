package main

import (
	"errors"

	"github.com/spf13/cobra"

	"formpost/display"
	"formpost/handler"
	"formpost/manager"
)

func newSubmitCmd() *cobra.Command {
	var (
		data     string
		file     string
		endpoint string
	)

	cmd := &cobra.Command{
		Use:   "submit [form]",
		Short: "Submit a form once and display the outcome",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if data != "" && file != "" {
				return errors.New("--data and --file cannot be used together")
			}
			name := formArg(args)

			store, err := openStore(name, endpoint)
			if err != nil {
				return err
			}
			cfg := store.Config()

			var input handler.InputSource
			switch {
			case data != "":
				input = handler.StaticInput(data)
			case file == "-":
				input = handler.ReaderInput{Reader: cmd.InOrStdin()}
			case file != "":
				input = handler.FileInput{Path: file}
			default:
				formConfig, _ := store.Form(name)
				input = handler.StaticInput(formConfig.Default)
			}

			client, err := newClient(cfg)
			if err != nil {
				return err
			}
			target := display.NewTerminal(cmd.OutOrStdout(), cliArgs.ColorMode(cfg.Color))

			form, err := handler.Bind(store, name, input, target, client)
			if err != nil {
				return err
			}
			if form == nil {
				log.Info("No form configured")
				return nil
			}

			inFlight := manager.NewInFlightManager(cfg.Forms)
			defer inFlight.Shutdown()
			form.WithInFlightManager(inFlight).Submit(cmd.Context())
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&data, "data", "", "JSON payload to send")
	flags.StringVarP(&file, "file", "f", "", "read the JSON payload from a file ('-' for stdin)")
	flags.StringVar(&endpoint, "endpoint", "", "endpoint to post to, overriding the form's configuration")

	return cmd
}
