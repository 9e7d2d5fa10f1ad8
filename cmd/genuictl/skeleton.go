package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-genui/internal/genui/pipeline"
)

func newSkeletonCommand(opts *globalOptions) *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:   "skeleton",
		Short: "Print the loading placeholder tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			vocab, err := opts.vocabulary()
			if err != nil {
				return err
			}
			svc := pipeline.New(opts.logger(), pipeline.WithVocabulary(vocab))
			return writeJSON(cmd.OutOrStdout(), svc.Skeleton(topic, svc.Capabilities(opts.declaration())))
		},
	}
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Topic shown in the placeholder")
	return cmd
}
