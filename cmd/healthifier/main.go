package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/usehealthifier/healthifier/internal/profile"
	"github.com/usehealthifier/healthifier/server"
	"github.com/usehealthifier/healthifier/store"
	"github.com/usehealthifier/healthifier/store/db"
)

const (
	greetingBanner = `Healthifier - your AI health companion`
)

var rootCmd = &cobra.Command{
	Use:   "healthifier",
	Short: "An AI-backed health assistant service",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:               viper.GetString("mode"),
			Addr:               viper.GetString("addr"),
			Port:               viper.GetInt("port"),
			Data:               viper.GetString("data"),
			Driver:             viper.GetString("driver"),
			DSN:                viper.GetString("dsn"),
			JWTAccessSecret:    viper.GetString("jwt-access-secret"),
			JWTRefreshSecret:   viper.GetString("jwt-refresh-secret"),
			JWTAccessExpiry:    viper.GetDuration("jwt-access-expiry"),
			JWTRefreshExpiry:   viper.GetDuration("jwt-refresh-expiry"),
			AIAPIKey:           viper.GetString("ai-api-key"),
			AIBaseURL:          viper.GetString("ai-base-url"),
			AIChatModel:        viper.GetString("ai-chat-model"),
			ChatHistoryWindow:  viper.GetInt("chat-history-window"),
			SessionIdleTimeout: viper.GetDuration("session-idle-timeout"),
			Version:            "0.1.0",
		}
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", slog.String("error", err.Error()))
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to create db driver", slog.String("error", err.Error()))
			os.Exit(1)
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			slog.Error("failed to migrate db", slog.String("error", err.Error()))
			os.Exit(1)
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			slog.Error("failed to create server", slog.String("error", err.Error()))
			os.Exit(1)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			slog.Info("received signal, shutting down", slog.String("signal", sig.String()))
			s.Shutdown(context.Background())
			cancel()
		}()

		printGreetings(instanceProfile)

		if err := s.Start(ctx); err != nil {
			if err != context.Canceled {
				slog.Error("failed to start server", slog.String("error", err.Error()))
			}
		}

		// Wait for the shutdown goroutine to finish its cleanup.
		<-ctx.Done()
		time.Sleep(100 * time.Millisecond)
	},
}

func printGreetings(p *profile.Profile) {
	fmt.Println(greetingBanner)
	fmt.Printf("version %s, mode %s, driver %s\n", p.Version, p.Mode, p.Driver)
	fmt.Printf("listening on %s:%d\n", p.Addr, p.Port)
}

func init() {
	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, can be "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetDefault("jwt-access-expiry", 15*time.Minute)
	viper.SetDefault("jwt-refresh-expiry", 30*24*time.Hour)
	viper.SetDefault("ai-base-url", "https://api.openai.com/v1")
	viper.SetDefault("ai-chat-model", "gpt-4o-mini")
	viper.SetDefault("chat-history-window", 10)
	viper.SetDefault("session-idle-timeout", 30*time.Minute)

	viper.SetEnvPrefix("healthifier")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
