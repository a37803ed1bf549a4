package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/choosenname/OneTeam/dm-service/internal/config"
	"github.com/choosenname/OneTeam/dm-service/internal/domain"
	"github.com/choosenname/OneTeam/pkg/database"
	pkglog "github.com/choosenname/OneTeam/pkg/log"
)

const serviceName = "dm-service"

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   serviceName,
	Short: "Direct-message ingest and real-time delivery",
	Long: `dm-service stores direct messages between two users and pushes every new
message to the WebSocket subscribers of its conversation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		pkglog.Init(pkglog.Config{
			Level:       cfg.Log.Level,
			Pretty:      cfg.Log.Pretty || cfg.Log.Level == "debug",
			ServiceName: serviceName,
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		l := pkglog.L()
		l.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func openDatabase(c *config.Config) (*gorm.DB, error) {
	return database.New(&database.Config{
		Driver:          c.Database.Driver,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		User:            c.Database.User,
		Password:        c.Database.Password,
		DBName:          c.Database.DBName,
		SSLMode:         c.Database.SSLMode,
		TimeZone:        c.Database.TimeZone,
		FilePath:        c.Database.FilePath,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		LogLevel:        c.Database.LogLevel,
	})
}

func migrate(db *gorm.DB) error {
	return database.AutoMigrate(db, domain.Models()...)
}

func closeDatabase(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		l := pkglog.L()
		l.Warn().Err(err).Msg("failed to close database")
	}
}
