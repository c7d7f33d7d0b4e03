package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/magicailabs/magicai/internal/profile"
	"github.com/magicailabs/magicai/internal/version"
	"github.com/magicailabs/magicai/server"
	"github.com/magicailabs/magicai/store"
	"github.com/magicailabs/magicai/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "magicai",
	Short: "A multi-tenant AI agent chat platform with kanban boards and email reminders.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Local runs pick up .env; service managers inject env directly.
		_ = godotenv.Load()
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:        viper.GetString("mode"),
			Addr:        viper.GetString("addr"),
			Port:        viper.GetInt("port"),
			Data:        viper.GetString("data"),
			Driver:      viper.GetString("driver"),
			DSN:         viper.GetString("dsn"),
			InstanceURL: viper.GetString("instance-url"),
			Version:     version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", "error", err)
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to create db driver", "error", err)
			return
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			slog.Error("failed to migrate database", "error", err)
			return
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			slog.Error("failed to create server", "error", err)
			return
		}

		c := make(chan os.Signal, 1)
		signal.Notify(c, terminationSignals...)

		if err := s.Start(ctx); err != nil {
			slog.Error("failed to start server", "error", err)
			return
		}

		printGreetings(instanceProfile)

		go func() {
			<-c
			s.Shutdown(ctx)
			cancel()
		}()

		<-ctx.Done()
	},
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("driver", "postgres")
	viper.SetDefault("port", 28091)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 28091, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "postgres", "database driver (postgres, sqlite)")
	rootCmd.PersistentFlags().String("dsn", "", "database source name(aka. DSN)")
	rootCmd.PersistentFlags().String("instance-url", "", "the url of your magicai instance")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn", "instance-url"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("magicai")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func printGreetings(profile *profile.Profile) {
	fmt.Printf("MagicAI %s started successfully!\n", profile.Version)

	if profile.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
		if profile.DSN != "" {
			fmt.Fprintf(os.Stderr, "Database: %s\n", profile.DSN)
		}
	}

	fmt.Printf("Data directory: %s\n", profile.Data)
	fmt.Printf("Database driver: %s\n", profile.Driver)
	fmt.Printf("Mode: %s\n", profile.Mode)

	if len(profile.Addr) == 0 {
		fmt.Printf("Server running on port %d\n", profile.Port)
	} else {
		fmt.Printf("Server running on %s:%d\n", profile.Addr, profile.Port)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
