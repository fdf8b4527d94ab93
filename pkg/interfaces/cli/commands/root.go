package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vsinha/labstock/pkg/config"
	"github.com/vsinha/labstock/pkg/infrastructure/logging"
)

// rootOptions holds the persistent flags and the state PersistentPreRunE derives from them
type rootOptions struct {
	configPath string
	files      []string
	identifier string
	policy     string
	verbose    bool

	config *config.Config
	logger *zap.Logger
}

// app builds the service graph; logger may override the root logger
func (o *rootOptions) app(logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = o.logger
	}
	return NewApp(o.config, logger, nil)
}

// NewRootCommand creates the labstock command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "labstock",
		Short: "Lab inventory dashboard and shipment receiving",
		Long: `labstock tracks a lab's stock of reagents and consumables in a spreadsheet
(xlsx, csv or sqlite), reports what needs reordering or expires soon, and
records received shipments against it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if len(opts.files) > 0 {
				cfg.Storage.Locations = make([]config.LocationConfig, len(opts.files))
				for i, path := range opts.files {
					cfg.Storage.Locations[i] = config.LocationConfig{Path: path}
				}
			}
			if opts.identifier != "" {
				cfg.Receiving.Identifier = opts.identifier
			}
			if opts.policy != "" {
				cfg.Receiving.NotFoundPolicy = opts.policy
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, opts.verbose)
			if err != nil {
				return err
			}
			opts.config = cfg
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "labstock.yaml", "Path to the configuration file")
	flags.StringSliceVar(&opts.files, "file", nil, "Inventory file, repeatable; overrides storage.locations")
	flags.StringVar(&opts.identifier, "by", "", "Identifying field for receipts: sku or name")
	flags.StringVar(&opts.policy, "policy", "", "Unknown identifiers on receipt: reject or create")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newViewCommand(opts, ListView, "list", "List inventory records"),
		newViewCommand(opts, SummaryView, "summary", "Show the dashboard metrics"),
		newViewCommand(opts, AlertsView, "alerts", "List items at or below their reorder threshold"),
		newReceiveCommand(opts),
		newServeCommand(opts),
		newDashboardCommand(opts),
		newConfigCommand(opts),
	)
	return root
}

func newViewCommand(opts *rootOptions, view View, use, short string) *cobra.Command {
	cfg := ViewConfig{View: view}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(nil)
			if err != nil {
				return err
			}
			cfg.Out = cmd.OutOrStdout()
			return NewViewCommand(cfg, app.Dashboard).Execute(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&cfg.Filters.Categories, "category", nil, "Only show these categories (repeatable or comma separated)")
	flags.StringSliceVar(&cfg.Filters.Manufacturers, "manufacturer", nil, "Only show these manufacturers (repeatable or comma separated)")
	flags.StringVar(&cfg.Filters.ExpiresFrom, "expires-from", "", "Only show items expiring on or after this date (YYYY-MM-DD)")
	flags.StringVar(&cfg.Filters.ExpiresTo, "expires-to", "", "Only show items expiring on or before this date (YYYY-MM-DD)")
	flags.StringVarP(&cfg.Format, "format", "f", "text", "Output format: text, json, csv")
	return cmd
}

func newReceiveCommand(opts *rootOptions) *cobra.Command {
	cfg := ReceiveConfig{}

	cmd := &cobra.Command{
		Use:   "receive <identifier> <quantity>",
		Short: "Record a received shipment",
		Long: `Add a received quantity to the matching inventory record and save the table.

With --policy create an unknown identifier adds a new record; pass its details
with --name, --sku, --category, --manufacturer, --expires, --threshold and
--order-qty.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(nil)
			if err != nil {
				return err
			}
			cfg.Identifier = args[0]
			cfg.Quantity = args[1]
			cfg.Out = cmd.OutOrStdout()
			return NewReceiveCommand(cfg, app.Dashboard).Execute(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.ReceivedDate, "date", "", "Date received (YYYY-MM-DD, default today)")
	flags.StringVar(&cfg.Item.Name, "name", "", "Name of a new item")
	flags.StringVar(&cfg.Item.SKU, "sku", "", "SKU of a new item")
	flags.StringVar(&cfg.Item.Category, "category", "", "Category of a new item")
	flags.StringVar(&cfg.Item.Manufacturer, "manufacturer", "", "Manufacturer of a new item")
	flags.StringVar(&cfg.Item.Expires, "expires", "", "Expiration date of a new item (YYYY-MM-DD, default the received date)")
	flags.Int64Var(&cfg.Item.ReorderThreshold, "threshold", 0, "Reorder threshold of a new item (default from configuration)")
	flags.Int64Var(&cfg.Item.OrderQuantity, "order-qty", 0, "Order quantity of a new item (default from configuration)")
	flags.StringVarP(&cfg.Format, "format", "f", "text", "Output format: text, json")
	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	cfg := ServeConfig{}
	var accessLog bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(nil)
			if err != nil {
				return err
			}
			if cfg.Addr == "" {
				cfg.Addr = app.Config.Server.Addr
			}
			if accessLog {
				cfg.AccessLog = cmd.ErrOrStderr()
			}
			return NewServeCommand(cfg, app).Execute(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Addr, "addr", "", "Listen address (default server.addr)")
	flags.BoolVar(&cfg.Watch, "watch", true, "Reload the inventory when its file changes on disk")
	flags.BoolVar(&accessLog, "access-log", false, "Log every request")
	return cmd
}

func newDashboardCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Run the interactive terminal dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would tear the full-screen view; keep errors only
			app, err := opts.app(opts.logger.WithOptions(zap.IncreaseLevel(zapcore.ErrorLevel)))
			if err != nil {
				return err
			}
			return NewDashboardCommand(app).Execute(cmd.Context())
		},
	}
}

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cfg := InitConfig{}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the --config file",
		Long: `Write the configuration in effect, defaults plus any --file, --by and
--policy overrides, as YAML to the path given by --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Path = opts.configPath
			cfg.Out = cmd.OutOrStdout()
			return NewInitCommand(cfg, opts.config).Execute(cmd.Context())
		},
	}
	initCmd.Flags().BoolVar(&cfg.Force, "force", false, "Overwrite an existing file")

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the labstock configuration file",
	}
	cmd.AddCommand(initCmd)
	return cmd
}
