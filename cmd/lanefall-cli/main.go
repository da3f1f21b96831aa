package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lanefall/lanefall/internal/config"
	lfnet "github.com/lanefall/lanefall/internal/net"
	"github.com/lanefall/lanefall/internal/replay"
)

var cfgPath string

func main() {
	root := &cobra.Command{
		Use:   "lanefall-cli",
		Short: "Lane combat over TCP: host a match, join one, or replay a journal",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to lanefall.yaml (default: search . and $HOME/.lanefall)")

	root.AddCommand(newHostCommand())
	root.AddCommand(newJoinCommand())
	root.AddCommand(newReplayCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newHostCommand() *cobra.Command {
	var (
		squadron int
		port     string
		file     string
		seed     int64
		journal  string
	)
	cmd := &cobra.Command{
		Use:   "host",
		Short: "Start a match server and play as player 1",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if port == "" {
				port = cfg.Port
			}
			if file == "" {
				file = cfg.SquadronFile
			}
			if journal == "" {
				journal = cfg.ReplayDB
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync()

			srv := &lfnet.Server{
				SquadronFile: file,
				Port:         port,
				HostSquadron: squadron,
				Seed:         seed,
				Logger:       logger,
			}
			if journal != "" {
				store, err := replay.Open(journal)
				if err != nil {
					return err
				}
				defer store.Close()
				srv.Journal = store
			}
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&squadron, "squadron", 1, "squadron number to play (1-indexed)")
	cmd.Flags().StringVar(&port, "port", "", "TCP port to listen on")
	cmd.Flags().StringVar(&file, "squadrons", "", "path to squadrons YAML file")
	cmd.Flags().Int64Var(&seed, "seed", 0, "shuffle seed (0 derives one from the match id)")
	cmd.Flags().StringVar(&journal, "journal", "", "SQLite file to record the match into")
	return cmd
}

func newJoinCommand() *cobra.Command {
	var (
		squadron int
		addr     string
	)
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Connect to a match server and play as player 2",
		RunE: func(cmd *cobra.Command, args []string) error {
			return lfnet.Connect(cmd.Context(), addr, squadron)
		},
	}
	cmd.Flags().IntVar(&squadron, "squadron", 2, "squadron number to play (1-indexed)")
	cmd.Flags().StringVar(&addr, "addr", "localhost:7771", "server address to connect to")
	return cmd
}

func newReplayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Inspect and re-run journaled matches",
	}
	cmd.AddCommand(newReplayListCommand())
	cmd.AddCommand(newReplayShowCommand())
	return cmd
}

func newReplayListCommand() *cobra.Command {
	var journal string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openJournal(journal)
			if err != nil {
				return err
			}
			defer store.Close()
			matches, err := store.Matches(cmd.Context())
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Println("No journaled matches.")
				return nil
			}
			for _, m := range matches {
				fmt.Printf("%s  seed=%-12d squadrons=%d/%d  actions=%-3d  %s\n",
					m.ID, m.Seed, m.Squadron0, m.Squadron1, m.Actions,
					m.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&journal, "journal", "", "SQLite journal file")
	return cmd
}

func newReplayShowCommand() *cobra.Command {
	var (
		journal string
		file    string
	)
	cmd := &cobra.Command{
		Use:   "show MATCH_ID",
		Short: "Re-run a journaled match and print its event log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.SquadronFile
			}
			store, err := openJournal(journal)
			if err != nil {
				return err
			}
			defer store.Close()
			state, logger, err := store.Replay(cmd.Context(), args[0], file)
			if err != nil {
				return err
			}
			fmt.Print(logger.FormatAll())
			if state.Over {
				fmt.Printf("\n%s\n", state.Result)
			} else {
				fmt.Printf("\nJournal ends mid-match at turn %d.\n", state.Turn)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&journal, "journal", "", "SQLite journal file")
	cmd.Flags().StringVar(&file, "squadrons", "", "path to squadrons YAML file")
	return cmd
}

func openJournal(path string) (*replay.Store, error) {
	if path == "" {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, err
		}
		path = cfg.ReplayDB
	}
	if path == "" {
		return nil, fmt.Errorf("no journal file: pass --journal or set replay_db in the config")
	}
	return replay.Open(path)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
