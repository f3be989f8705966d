package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abyssdigger/jarr/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty JSON array file",
	Long: `Creates the target file containing an empty array. Fails if the file
already exists, so an existing array is never clobbered.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&flagFile, "file", "f", "", "target JSON array file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("file") {
		cfg.File = flagFile
	}
	if cfg.File == "" {
		return errors.New("no target file: pass --file or set 'file' in the config")
	}
	f, err := os.OpenFile(cfg.File, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("cannot initialize %s: %w", cfg.File, err)
	}
	defer f.Close()
	_, err = f.Write([]byte("[]"))
	return err
}
