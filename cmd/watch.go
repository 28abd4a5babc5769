package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hdframe/internal"
)

var settleFlag time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [dir...]",
	Short: "Normalize photos as they arrive in directories",
	Long: `Watch keeps running and normalizes every new file matching --ext that
appears directly inside one of the directories. A file is picked up once it
has not been written to for --settle.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, dir := range args {
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return fmt.Errorf("folder does not exist or is not a directory: %s", dir)
			}
		}

		p, err := newPipeline(cmd)
		if err != nil {
			return err
		}
		defer p.Close()

		if dir, ok := watchesOutput(args, p.conf.Output); ok {
			return fmt.Errorf("output directory %s is also watched; choose an --output outside the watched directories", dir)
		}

		watcher, err := internal.NewWatcher(args, p.conf.Extensions, settleFlag)
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer watcher.Close()

		log := p.logger.Logger
		log.Info("watching for photos", zap.Strings("dirs", args), zap.String("output", p.conf.Output))

		for {
			select {
			case path := <-watcher.Ready():
				p.normalizer.Handle(path)
			case err := <-watcher.Errors():
				log.Warn("watcher error", zap.Error(err))
			case <-cmd.Context().Done():
				log.Info("stopping watcher")
				return nil
			}
		}
	},
}

// watchesOutput reports the watched directory that output resolves to, if
// any. Written frames would otherwise be picked up as new photos.
func watchesOutput(dirs []string, output string) (string, bool) {
	out := resolveDir(output)
	for _, dir := range dirs {
		if resolveDir(dir) == out {
			return dir, true
		}
	}
	return "", false
}

func resolveDir(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		dir = resolved
	}
	return filepath.Clean(dir)
}

func init() {
	addPipelineFlags(watchCmd.Flags())
	watchCmd.Flags().DurationVar(&settleFlag, "settle", 2*time.Second, "Quiet period before a new file is processed")
	rootCmd.AddCommand(watchCmd)
}
