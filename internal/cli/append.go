package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abyssdigger/jarr"
	"github.com/abyssdigger/jarr/internal/config"
)

var (
	flagFile      string
	flagCompact   bool
	flagIndent    int
	flagNoCreate  bool
	flagThreshold int

	appendCmd = &cobra.Command{
		Use:   "append [entries...]",
		Short: "Append JSON entries to the array file",
		Long: `Appends each argument as one array element. Every argument must be a
complete JSON value; a single "-" argument reads entries line by line
from stdin instead. Entries are validated before any file I/O, so one
bad argument leaves the file untouched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAppend,
	}
)

func init() {
	appendCmd.Flags().StringVarP(&flagFile, "file", "f", "", "target JSON array file")
	appendCmd.Flags().BoolVar(&flagCompact, "compact", false, "no insignificant whitespace in output")
	appendCmd.Flags().IntVar(&flagIndent, "indent", 2, "indentation width when pretty printing")
	appendCmd.Flags().BoolVar(&flagNoCreate, "no-create", false, "fail instead of creating an absent or empty file")
	appendCmd.Flags().IntVar(&flagThreshold, "threshold", 0, "pending entries per file mutation (0 = one mutation for the whole batch)")
	rootCmd.AddCommand(appendCmd)
}

func runAppend(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	mergeFlags(cmd, cfg)
	if cfg.File == "" {
		return errors.New("no target file: pass --file or set 'file' in the config")
	}

	entries, err := collectEntries(args)
	if err != nil {
		return err
	}

	threshold := cfg.Threshold
	if !cmd.Flags().Changed("threshold") && threshold <= 1 {
		// default CLI behavior: the whole invocation is one file mutation
		threshold = jarr.THRESHOLD_UNBOUNDED
	}
	w, err := jarr.InitWithParams(cfg.File, jarr.Params{
		Pretty:    !cfg.Compact,
		Indent:    cfg.Indent,
		AutoInit:  !cfg.NoCreate,
		Threshold: threshold,
	})
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Append(e); err != nil {
			return err
		}
	}
	return w.Close()
}

// mergeFlags overlays explicitly set command flags onto the file config.
func mergeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("file") {
		cfg.File = flagFile
	}
	if cmd.Flags().Changed("compact") {
		cfg.Compact = flagCompact
	}
	if cmd.Flags().Changed("indent") {
		cfg.Indent = flagIndent
	}
	if cmd.Flags().Changed("no-create") {
		cfg.NoCreate = flagNoCreate
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Threshold = flagThreshold
	}
}

// collectEntries parses the positional arguments (or stdin lines for a
// lone "-") as raw JSON values, rejecting anything malformed up front.
func collectEntries(args []string) ([]any, error) {
	lines := args
	if len(args) == 1 && args[0] == "-" {
		lines = nil
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if len(scanner.Bytes()) > 0 {
				lines = append(lines, scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	entries := make([]any, 0, len(lines))
	for i, line := range lines {
		raw := json.RawMessage(line)
		if !json.Valid(raw) {
			return nil, fmt.Errorf("entry #%d is not valid JSON: %q", i+1, line)
		}
		entries = append(entries, raw)
	}
	if len(entries) == 0 {
		return nil, errors.New("no entries to append")
	}
	return entries, nil
}
