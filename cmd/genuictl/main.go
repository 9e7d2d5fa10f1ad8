package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-genui/internal/genui/capability"
	"github.com/yungbote/neurobridge-genui/internal/platform/logger"
)

const version = "1.0.0"

type globalOptions struct {
	vocabFile  string
	components string
	envelope   string
	client     string
	platform   string
	verbose    bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:   "genuictl",
		Short: "Produce adapted UI trees from learning content",
		Long: `genuictl runs the extract, render and adapt pipeline locally.
Output is JSON; pipe through jq for formatting.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&opts.vocabFile, "vocab", os.Getenv("GENUI_VOCAB_FILE"), "Vocabulary tier YAML file")
	rootCmd.PersistentFlags().StringVar(&opts.components, "components", "", "Client component list, e.g. text,button,card")
	rootCmd.PersistentFlags().StringVar(&opts.envelope, "capabilities", "", "Client capability envelope (JSON)")
	rootCmd.PersistentFlags().StringVar(&opts.client, "client-version", "", "Client protocol version")
	rootCmd.PersistentFlags().StringVar(&opts.platform, "platform", "", "Client platform")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newProduceCommand(opts))
	rootCmd.AddCommand(newSkeletonCommand(opts))
	rootCmd.AddCommand(newVocabCommand(opts))
	return rootCmd
}

func (o *globalOptions) logger() *logger.Logger {
	if !o.verbose {
		return logger.NewNop()
	}
	log, err := logger.New("development")
	if err != nil {
		return logger.NewNop()
	}
	return log
}

func (o *globalOptions) vocabulary() (capability.Config, error) {
	if o.vocabFile == "" {
		return capability.DefaultConfig(), nil
	}
	return capability.LoadConfig(o.vocabFile)
}

func (o *globalOptions) declaration() capability.Declaration {
	return capability.Declaration{
		Components: o.components,
		Envelope:   o.envelope,
		Version:    o.client,
		Platform:   o.platform,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
