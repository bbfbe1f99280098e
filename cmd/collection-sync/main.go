package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vulnops/snyk-collection-sync/internal/config"
	ierr "github.com/vulnops/snyk-collection-sync/internal/errors"
	"github.com/vulnops/snyk-collection-sync/internal/httpclient"
	"github.com/vulnops/snyk-collection-sync/internal/logger"
	"github.com/vulnops/snyk-collection-sync/internal/service"
	"github.com/vulnops/snyk-collection-sync/internal/snyk"
)

type options struct {
	prefix     string
	collection string
	output     string
	token      string
	org        string
	configFile string
	dryRun     bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "collection-sync",
		Short: "Sync Snyk projects matching a name prefix into a collection",
		Long: `collection-sync retrieves all Snyk projects whose names start with the
given prefix, ensures the named collection exists (creating it if absent)
and adds the matched projects to it.

Credentials come from --token/--org or from a JSON config file with
api_token and org_id fields.`,
		Example: `  collection-sync --prefix "my-app" --collection "My Applications"
  collection-sync -p backend -c "Backend Services" -o project_ids.txt
  collection-sync -p api -c "API Services" --token YOUR_TOKEN --org YOUR_ORG_ID`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.prefix, "prefix", "p", "", "project name prefix to match (required)")
	flags.StringVarP(&opts.collection, "collection", "c", "", "collection name (required)")
	flags.StringVarP(&opts.output, "output", "o", "", "file to save the matched project IDs to (empty value derives a timestamped name)")
	flags.StringVarP(&opts.token, "token", "t", "", "Snyk API token (overrides the config file)")
	flags.StringVar(&opts.org, "org", "", "Snyk organization ID (overrides the config file)")
	flags.StringVarP(&opts.configFile, "config", "f", config.DefaultConfigFile, "configuration file path")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "validate arguments and print the intended action without any API call")

	_ = cmd.MarkFlagRequired("prefix")
	_ = cmd.MarkFlagRequired("collection")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	outputRequested := cmd.Flags().Changed("output")

	if opts.dryRun {
		fmt.Println("DRY RUN MODE - no API calls will be made")
		fmt.Printf("would extract projects with prefix %q\n", opts.prefix)
		fmt.Printf("would use or create collection %q\n", opts.collection)
		if outputRequested {
			fmt.Printf("would save project IDs to %q\n", opts.output)
		}
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	api := snyk.NewClient(httpclient.NewDefaultClient(), cfg, log)
	svc := service.NewCollectionSyncService(api, log)

	result, err := svc.Sync(context.Background(), service.SyncParams{
		Prefix:         opts.prefix,
		CollectionName: opts.collection,
	})
	if err != nil {
		// Fatal reconciliation failure: creation rejected even after the
		// single name-only fallback.
		return err
	}

	if len(result.ProjectIDs) == 0 {
		return fmt.Errorf("no projects found with prefix %q", opts.prefix)
	}

	if outputRequested {
		path, err := service.WriteProjectIDs(result.ProjectIDs, opts.output)
		if err != nil {
			log.Warnw("failed to save project IDs", "error", err)
		} else {
			log.Infof("project IDs saved to %s", path)
		}
	}

	if !result.CollectionsAvailable {
		log.Warnf("collections are unavailable for this organization; extracted %d project IDs anyway",
			len(result.ProjectIDs))
	}

	log.Infof("operation completed, extracted %d project IDs", len(result.ProjectIDs))
	return nil
}

// loadConfig resolves the configuration for the run. The config file is only
// consulted when the command line does not carry both credential values.
func loadConfig(opts *options) (*config.Configuration, error) {
	cfg := config.GetDefaultConfig()

	if opts.token == "" || opts.org == "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.token != "" {
		cfg.APIToken = opts.token
	}
	if opts.org != "" {
		cfg.OrgID = opts.org
	}

	if err := cfg.Validate(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("provide the API token and organization ID via flags or the config file").
			Mark(ierr.ErrConfig)
	}

	return cfg, nil
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := ierr.Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
