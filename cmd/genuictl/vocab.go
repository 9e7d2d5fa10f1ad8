package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-genui/internal/genui/capability"
	"github.com/yungbote/neurobridge-genui/internal/genui/component"
)

type vocabView struct {
	ProtocolVersion string                         `json:"protocol_version"`
	Types           []component.Type               `json:"types"`
	Legacy          capability.Vocabulary          `json:"legacy"`
	Tiers           []capability.Tier              `json:"tiers"`
	Client          *capability.ClientCapabilities `json:"client,omitempty"`
}

func newVocabCommand(opts *globalOptions) *cobra.Command {
	var resolve bool
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Show vocabulary tiers, or resolve a client declaration with --resolve",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.vocabulary()
			if err != nil {
				return err
			}
			view := vocabView{
				ProtocolVersion: component.ProtocolVersion,
				Types:           component.AllTypes(),
				Legacy:          cfg.Legacy(),
				Tiers:           cfg.Tiers(),
			}
			if resolve {
				caps := capability.Parse(cfg, opts.declaration())
				view.Client = &caps
			}
			return writeJSON(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().BoolVar(&resolve, "resolve", false, "Resolve the declaration given by the global client flags")
	return cmd
}
