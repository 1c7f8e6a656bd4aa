// root.go viper root command code
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valib-go/valib/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "valibctl",
		Short: "valib CLI",
	}

	if err := setupFlags(rootCmd); err != nil {
		log.Printf("error setting up flags: %v\n", err)
	}

	rootCmd.AddCommand(ProcessCommand())
	rootCmd.AddCommand(InfoCommand())

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := initialize(); err != nil {
			return fmt.Errorf("error initializing: %w", err)
		}
		return nil
	}

	return rootCmd
}

func setupFlags(cmd *cobra.Command) error {
	cmd.PersistentFlags().String("config", "", "config file (none is loaded when unset)")
	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}

func initialize() error {
	if path := viper.GetString("config"); path != "" {
		if _, err := conf.Load(path); err != nil {
			return err
		}
	}
	return nil
}
