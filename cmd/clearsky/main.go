package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openpv/clearsky/internal/app"
	"github.com/openpv/clearsky/internal/constants"
	"github.com/openpv/clearsky/internal/log"
	"github.com/openpv/clearsky/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source:\n\t\t\t  YAML: config.yaml\n\t\t\t  SQLite: config.db\n\t\t\t  Use -migrate-config to convert YAML→SQLite")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' for YAML files, 'sqlite' for SQLite databases")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	validateOnly := flag.Bool("validate", false, "Validate the configuration and exit")
	migrateTarget := flag.String("migrate-config", "", "Write the loaded configuration into the given SQLite database and exit")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("clearsky %s\n", constants.Version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Load configuration
	cfgData, err := loadConfig(*cfgFile, *cfgBackend)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	if err := config.Validate(cfgData); err != nil {
		log.Errorf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	if *validateOnly {
		fmt.Println("configuration OK")
		os.Exit(0)
	}

	if *migrateTarget != "" {
		if err := migrateConfig(cfgData, *migrateTarget); err != nil {
			log.Errorf("Failed to migrate configuration: %v", err)
			os.Exit(1)
		}
		log.Infof("configuration written to %s", *migrateTarget)
		os.Exit(0)
	}

	// Create and run the application
	application := app.New(cfgData, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorf("Application error: %v", err)
		os.Exit(1)
	}
}

func loadConfig(cfgFile, cfgBackend string) (*config.ConfigData, error) {
	filename, _ := filepath.Abs(cfgFile)

	var provider config.ConfigProvider
	var err error

	switch cfgBackend {
	case "yaml":
		provider = config.NewYAMLProvider(filename)
	case "sqlite":
		provider, err = config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, fmt.Errorf("error creating SQLite provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s. Use 'yaml' or 'sqlite'", cfgBackend)
	}
	defer provider.Close()

	cfgData, err := provider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error reading config file. Did you pass the -config flag? Run with -h for help: %w", err)
	}

	return cfgData, nil
}

func migrateConfig(cfgData *config.ConfigData, target string) error {
	provider, err := config.NewSQLiteProvider(target)
	if err != nil {
		return fmt.Errorf("error creating SQLite provider: %w", err)
	}
	defer provider.Close()

	return provider.SaveConfig(cfgData)
}
