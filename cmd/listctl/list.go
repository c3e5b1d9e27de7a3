package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/friendsofgo/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nrfta/listview-go/coordinator"
	"github.com/nrfta/listview-go/internal/config"
	"github.com/nrfta/listview-go/internal/logging"
	"github.com/nrfta/listview-go/pagestate"
	"github.com/nrfta/listview-go/restclient"
)

type listOptions struct {
	query    string
	page     int
	pageSize int
	filters  []string
}

func newListCmd(root *rootOptions) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list <entity>",
		Short: "Print one page of an entity list",
		Long: `Print one page of an entity list.

The page is chosen from --query (a dashboard query string such as
"page=3&q=civic"), then adjusted by --page, --page-size and --filter.
A page past the end of the list is pulled back to the last page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(root)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return runList(cmd.Context(), cmd.OutOrStdout(), cfg, logger, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "dashboard query string, e.g. \"page=2&q=civic\"")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 0, "1-based page number")
	cmd.Flags().IntVarP(&opts.pageSize, "page-size", "s", 0, "rows per page")
	cmd.Flags().StringArrayVarP(&opts.filters, "filter", "f", nil, "filter as name=value, repeatable")

	return cmd
}

func newEntitiesCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "entities",
		Short: "List the configured entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ENTITY\tLIST\tSEARCH")
			for _, name := range cfg.EntityNames() {
				entity := cfg.Entities[name]
				search := entity.SearchPath
				if entity.ClientSideSearch() {
					search = "(client side)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, entity.ListPath, search)
			}
			return w.Flush()
		},
	}
}

func setup(root *rootOptions) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(root.configPath)
	if err != nil {
		return nil, nil, err
	}
	if root.verbose {
		cfg.Log.Level = "debug"
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create logger")
	}
	return cfg, logger, nil
}

func runList(ctx context.Context, out io.Writer, cfg *config.Config, logger *zap.Logger, name string, opts *listOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	entity, err := cfg.Entity(name)
	if err != nil {
		return err
	}

	client, err := restclient.New(cfg.API.BaseURL,
		restclient.WithToken(cfg.API.Token),
		restclient.WithTimeout(cfg.API.Timeout),
		restclient.WithLogger(logger.Named("restclient")),
	)
	if err != nil {
		return err
	}

	paginated, search := entitySources(client, entity)
	coord, err := coordinator.New(name, paginated, search,
		coordinator.WithLogger(logger.Named("coordinator")),
		coordinator.WithCacheSize(cfg.CacheSize),
		coordinator.WithPageConfig(&cfg.Paging),
	)
	if err != nil {
		return err
	}

	codec := pagestate.NewCodec(&cfg.Paging)
	state, err := requestedState(codec, opts)
	if err != nil {
		return err
	}

	store := pagestate.NewStore(state)
	nav := &queryNavigator{}
	defer pagestate.SyncURL(store, codec, nav)()

	result := coord.Load(ctx, store.State())
	if result.IsError {
		return errors.Wrapf(result.Err, "list %s", name)
	}

	if next, changed := pagestate.Reconcile(result.State, result.Total, result.IsLoading); changed {
		logger.Info("page past the end of the list",
			zap.Int("requested", result.State.Page),
			zap.Int("reconciled", next.Page),
			zap.Int("total", result.Total),
		)
		store.Replace(next)
		result = coord.Load(ctx, store.State())
		if result.IsError {
			return errors.Wrapf(result.Err, "list %s", name)
		}
	}

	if err := printRows(out, columns(entity, result.Items), result.Items); err != nil {
		return err
	}

	fmt.Fprintf(out, "\npage %d of %d, %d total (%s)\n",
		result.State.Page,
		max(result.PageInfo.PageCount, 1),
		result.Total,
		result.Source,
	)
	if query := codec.Encode(store.State()).Encode(); query != "" {
		fmt.Fprintf(out, "query: %s\n", query)
	}
	if nav.replaced {
		fmt.Fprintln(out, "(requested page was replaced)")
	}
	return nil
}

// requestedState decodes --query and applies the explicit flags on top of it.
func requestedState(codec pagestate.Codec, opts *listOptions) (pagestate.State, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(opts.query, "?"))
	if err != nil {
		return pagestate.State{}, errors.Wrapf(err, "parse query %q", opts.query)
	}
	state := codec.Decode(values)

	for _, raw := range opts.filters {
		filterName, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(filterName) == "" {
			return pagestate.State{}, errors.Errorf("invalid filter %q, want name=value", raw)
		}
		state = state.WithFilter(strings.TrimSpace(filterName), value)
	}
	if opts.pageSize > 0 {
		state = state.WithPageSize(codec.Config.EffectiveLimit(opts.pageSize))
	}
	if opts.page > 0 {
		state = state.WithPage(opts.page)
	}
	return state, nil
}

func printRows(out io.Writer, cols []string, rows []Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, "no rows")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(cols, "\t")))
	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, col := range cols {
			cells[i] = row.Field(col)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}

// queryNavigator records whether the canonical query was replaced.
type queryNavigator struct {
	replaced bool
}

func (n *queryNavigator) Push(url.Values) {}

func (n *queryNavigator) Replace(url.Values) {
	n.replaced = true
}
