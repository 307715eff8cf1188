package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mohit-mindspick/whatsapp/internal/config"
	"github.com/mohit-mindspick/whatsapp/internal/tokens"
)

type siteFile struct {
	Sites []tokens.Site `yaml:"sites"`
}

func loadSites(path string) ([]tokens.Site, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sites file: %w", err)
	}
	var f siteFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse sites file: %w", err)
	}
	return f.Sites, nil
}

// newTokenCmd signs a token with the configured JWT_SECRET, for local
// testing against a running server.
func newTokenCmd() *cobra.Command {
	var (
		subject     string
		roles       []string
		permissions []string
		tenant      string
		session     string
		siteIDs     []string
		sitesPath   string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			codec, err := tokens.NewCodec(cfg.JWTSecret, cfg.JWTExpiration)
			if err != nil {
				return err
			}

			opts := []tokens.IssueOption{
				tokens.WithTenant(tenant),
				tokens.WithSession(session),
				tokens.WithSiteIDs(siteIDs...),
			}
			if sitesPath != "" {
				sites, err := loadSites(sitesPath)
				if err != nil {
					return err
				}
				opts = append(opts, tokens.WithSites(sites...))
			}

			tok, err := codec.Issue(subject, roles, permissions, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "token subject (user name)")
	cmd.Flags().StringSliceVar(&roles, "roles", nil, "role codes")
	cmd.Flags().StringSliceVar(&permissions, "permissions", nil, "permission codes")
	cmd.Flags().StringVar(&tenant, "tenant", "", "tenant id")
	cmd.Flags().StringVar(&session, "session", "", "session id")
	cmd.Flags().StringSliceVar(&siteIDs, "site-ids", nil, "authorized site ids")
	cmd.Flags().StringVar(&sitesPath, "sites", "", "yaml file with a sites list for geofencing")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
