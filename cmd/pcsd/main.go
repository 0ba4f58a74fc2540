// pcsd is the PCS chat server daemon.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/pcs-chat/pcsd/pkg/config"
	"github.com/pcs-chat/pcsd/pkg/logging"
	"github.com/pcs-chat/pcsd/pkg/model"
	"github.com/pcs-chat/pcsd/pkg/server"
	"github.com/pcs-chat/pcsd/pkg/store"
	"github.com/pcs-chat/pcsd/pkg/version"
)

func main() {
	if err := rootCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:           version.Name + "d",
		Usage:          "multi-user chat server",
		Version:        version.Version,
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			serveCommand(),
			hashCommand(),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the chat server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to a YAML config file", Sources: cli.EnvVars("PCSD_CONFIG")},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "log level (" + logging.LevelNames() + ")", Sources: cli.EnvVars("PCSD_LOG_LEVEL")},
			&cli.StringFlag{Name: "log-format", Value: "text", Usage: "log format (text or json)", Sources: cli.EnvVars("PCSD_LOG_FORMAT")},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := logging.Setup(logging.Options{
				Level:  cmd.String("log-level"),
				Format: cmd.String("log-format"),
			}); err != nil {
				return err
			}

			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}

			st, err := store.NewSQLite(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open account store: %w", err)
			}

			srv, err := server.New(cfg, st)
			if err != nil {
				st.Close()
				return err
			}
			return srv.Run()
		},
	}
}

// hashCommand prints the digest of a password read from the terminal,
// for pasting into a config file.
func hashCommand() *cli.Command {
	return &cli.Command{
		Name:  "hash",
		Usage: "hash a password for use in a config file",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Fprint(os.Stderr, "Password: ")
			secret, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			fmt.Println(model.Digest(string(secret)))
			return nil
		},
	}
}
