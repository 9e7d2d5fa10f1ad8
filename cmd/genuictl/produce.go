package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/neurobridge-genui/internal/genui/model"
	"github.com/yungbote/neurobridge-genui/internal/genui/pipeline"
)

func newProduceCommand(opts *globalOptions) *cobra.Command {
	var (
		kind  string
		topic string
		file  string
		raw   bool
	)
	cmd := &cobra.Command{
		Use:   "produce",
		Short: "Produce a tree for content read from --file or stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := model.ParseKind(kind)
			if !ok {
				return fmt.Errorf("unknown kind %q (want one of %v)", kind, model.Kinds())
			}
			input, err := readInput(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			vocab, err := opts.vocabulary()
			if err != nil {
				return err
			}

			svc := pipeline.New(opts.logger(), pipeline.WithVocabulary(vocab))
			caps := svc.Capabilities(opts.declaration())
			res := svc.Produce(cmd.Context(), pipeline.Request{
				Kind:    k,
				Topic:   topic,
				Content: parseContent(input, raw),
			}, caps)
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", string(model.KindExplanation), "Content kind: course, quiz, explanation, study_plan")
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Topic the content is about")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read content from file instead of stdin")
	cmd.Flags().BoolVar(&raw, "raw", false, "Treat input as text even if it is valid JSON")
	return cmd
}

func readInput(stdin io.Reader, file string) ([]byte, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		return b, nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return b, nil
}

// parseContent decodes JSON input when possible and otherwise passes the text through.
func parseContent(b []byte, raw bool) any {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return nil
	}
	if !raw {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err == nil {
			return v
		}
	}
	return strings.TrimSpace(string(b))
}
