package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cpcf/ngsyntax/generate"
	"github.com/cpcf/ngsyntax/query"
)

type linkOptions struct {
	tag       string
	directive string
	binding   string
	base      string
	decode    string
}

func newLinkCmd() *cobra.Command {
	opts := &linkOptions{}

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Encode a request as a permalink, or decode one",
		Example: `  ngsyntax link --tag li --directive ngFor --binding "let item of items"
  ngsyntax link --base https://example.com/playground --directive ngIf --binding "cond"
  ngsyntax link --decode "?tagName=li&directive=ngFor&binding=let%20item%20of%20items"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("decode") {
				req, err := query.Decode(opts.decode)
				if err != nil {
					return err
				}
				data, err := yaml.Marshal(req)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			req := generate.Request{TagName: opts.tag, Directive: opts.directive, Binding: opts.binding}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), query.Link(opts.base, req))
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.tag, "tag", "", "host element tag name")
	flags.StringVarP(&opts.directive, "directive", "d", "", "directive name")
	flags.StringVarP(&opts.binding, "binding", "b", "", "binding expression")
	flags.StringVar(&opts.base, "base", "", "URL the query string is appended to")
	flags.StringVar(&opts.decode, "decode", "", "decode this query string or URL instead of encoding")
	cmd.MarkFlagsMutuallyExclusive("decode", "tag")
	cmd.MarkFlagsMutuallyExclusive("decode", "directive")
	cmd.MarkFlagsMutuallyExclusive("decode", "binding")

	return cmd
}
