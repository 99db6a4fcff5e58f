package main

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"waypoint/internal/domain"
)

func routesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List routes, most specific first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.newRouter()
			if err != nil {
				return err
			}
			defer r.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTEMPLATE\tRANKING\tNESTED")
			for _, m := range r.Matchers() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%t\n", m.Name, m.Template, m.Ranking, m.IsNested)
			}
			return w.Flush()
		},
	}
}

func matchCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "match <url>",
		Short: "Print the route matching a URL",
		Long: `Print the route matching a URL and its params.

Path params win over search params of the same name. The command exits
with an error when no route matches.

Examples:
  waypoint match /users/42
  waypoint match "/docs/guide/intro?lang=en" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.newRouter()
			if err != nil {
				return err
			}
			defer r.Close()

			match, ok := r.Resolve(args[0])
			if !ok {
				return fmt.Errorf("no route matches %s", args[0])
			}

			if asJSON {
				data, err := json.MarshalIndent(match, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), match.Name)
			keys := make([]string, 0, len(match.Params))
			for k := range match.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s=%v\n", k, match.Params[k])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the match as JSON")

	return cmd
}

func urlCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "url <route> [key=value...]",
		Short: "Build the URL of a route",
		Long: `Build the URL of a route from key=value params.

Values are typed the way they are decoded from a query string: numbers
and true/false keep their type. Repeating a key makes a list. Params not
used by the template go to the search string.

Examples:
  waypoint url user id=42
  waypoint url search q=shoes size=42 size=43`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(args[1:])
			if err != nil {
				return err
			}

			r, err := opts.newRouter()
			if err != nil {
				return err
			}
			defer r.Close()

			u, err := r.CreateURL(args[0], params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
}

// parseParams reads key=value arguments through the search codec.
func parseParams(args []string) (domain.Params, error) {
	pairs := make([]string, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q: want key=value", arg)
		}
		pairs = append(pairs, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}
	return domain.DecodeSearch(strings.Join(pairs, "&")).Params(), nil
}
