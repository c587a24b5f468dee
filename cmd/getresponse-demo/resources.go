package main

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-getresponse/getresponse"
	"github.com/spf13/cobra"
)

func consentURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consent-url",
		Short: "Print the URL the account owner must open to grant access",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.requireFixedState(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.client.ConsentURL())
			return err
		},
	}
}

func exchangeCmd() *cobra.Command {
	var code, state string
	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Exchange the code from the consent redirect and store the tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.requireFixedState(); err != nil {
				return err
			}

			if state == "" {
				state = s.cfg.GetState()
			}
			tokens, err := s.client.Exchange(cmd.Context(), code, state)
			if err != nil {
				return err
			}
			if err := s.tokens.Save(cmd.Context(), tokens); err != nil {
				return fmt.Errorf("store tokens: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "connected, access token expires in %ds\n", tokens.ExpiresIn)
			return err
		},
	}
	cmd.Flags().StringVarP(&code, "code", "c", "", "Authorization code (required)")
	cmd.Flags().StringVarP(&state, "state", "s", "", "State returned on the redirect (defaults to GETRESPONSE_STATE)")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

// apiCommand builds a command that restores the stored tokens, runs fn and
// prints its result as JSON.
func apiCommand(use, short string, args cobra.PositionalArgs, fn func(ctx context.Context, c *getresponse.Client, args []string) (any, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.restore(cmd.Context()); err != nil {
				return err
			}
			result, err := fn(cmd.Context(), s.client, args)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func resourceCmds() []*cobra.Command {
	var campaignFilter string
	newslettersCmd := apiCommand("newsletters", "List newsletters", cobra.NoArgs, func(ctx context.Context, c *getresponse.Client, _ []string) (any, error) {
		return c.GetNewsletters(ctx, campaignFilter)
	})
	newslettersCmd.Flags().StringVar(&campaignFilter, "campaign", "", "Only newsletters of this campaign")

	return []*cobra.Command{
		apiCommand("account", "Show the connected account", cobra.NoArgs, func(ctx context.Context, c *getresponse.Client, _ []string) (any, error) {
			return c.GetAccountInfo(ctx)
		}),
		apiCommand("campaigns", "List campaigns", cobra.NoArgs, func(ctx context.Context, c *getresponse.Client, _ []string) (any, error) {
			return c.GetCampaigns(ctx)
		}),
		apiCommand("campaign CAMPAIGN_ID", "Show a campaign", cobra.ExactArgs(1), func(ctx context.Context, c *getresponse.Client, args []string) (any, error) {
			return c.GetCampaign(ctx, args[0])
		}),
		apiCommand("contacts CAMPAIGN_ID", "List a campaign's contacts", cobra.ExactArgs(1), func(ctx context.Context, c *getresponse.Client, args []string) (any, error) {
			return c.GetCampaignContacts(ctx, args[0])
		}),
		apiCommand("blacklists CAMPAIGN_ID", "Show a campaign's blacklist", cobra.ExactArgs(1), func(ctx context.Context, c *getresponse.Client, args []string) (any, error) {
			return c.GetCampaignBlacklists(ctx, args[0])
		}),
		newslettersCmd,
		apiCommand("newsletter NEWSLETTER_ID", "Show a newsletter", cobra.ExactArgs(1), func(ctx context.Context, c *getresponse.Client, args []string) (any, error) {
			return c.GetNewsletter(ctx, args[0])
		}),
		statisticsCmd(),
	}
}

func statisticsCmd() *cobra.Command {
	var from, to, groupBy, fields string
	cmd := apiCommand("statistics CAMPAIGN_ID METRIC",
		"Show campaign statistics (list-size, locations, origins, removals, subscriptions, balance, summary)",
		cobra.ExactArgs(2), func(ctx context.Context, c *getresponse.Client, args []string) (any, error) {
			return c.GetCampaignStatistics(ctx, args[0], getresponse.Metric(args[1]), getresponse.StatisticsOptions{
				GroupBy: getresponse.GroupBy(groupBy),
				From:    from,
				To:      to,
				Fields:  fields,
			})
		})
	cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD, RFC3339 or Unix seconds)")
	cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD, RFC3339 or Unix seconds)")
	cmd.Flags().StringVar(&groupBy, "group-by", "day", "hour, day, month or total")
	cmd.Flags().StringVar(&fields, "fields", "", "Comma separated fields to return")
	return cmd
}
