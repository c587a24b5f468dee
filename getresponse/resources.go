package getresponse

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jrsteele09/go-getresponse/internal/transport"
)

// GetAccountInfo returns the account the access token belongs to.
func (c *Client) GetAccountInfo(ctx context.Context) (Object, error) {
	const op = "get account info"
	resp, err := c.call(ctx, op, "/accounts", nil)
	return asObject(op, resp, err)
}

// GetCampaigns lists the account's campaigns (lists).
func (c *Client) GetCampaigns(ctx context.Context) ([]Object, error) {
	const op = "get campaigns"
	resp, err := c.call(ctx, op, "/campaigns", nil)
	return asList(op, resp, err)
}

// GetCampaign returns a single campaign.
func (c *Client) GetCampaign(ctx context.Context, campaignID string) (Object, error) {
	const op = "get campaign"
	if err := requireParam(op, "campaign id", campaignID); err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, op, "/campaigns/"+url.PathEscape(campaignID), nil)
	return asObject(op, resp, err)
}

// GetCampaignContacts lists the contacts subscribed to a campaign.
func (c *Client) GetCampaignContacts(ctx context.Context, campaignID string) ([]Object, error) {
	const op = "get campaign contacts"
	if err := requireParam(op, "campaign id", campaignID); err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, op, "/campaigns/"+url.PathEscape(campaignID)+"/contacts", nil)
	return asList(op, resp, err)
}

// GetCampaignBlacklists returns the campaign's blacklist masks.
func (c *Client) GetCampaignBlacklists(ctx context.Context, campaignID string) (Object, error) {
	const op = "get campaign blacklists"
	if err := requireParam(op, "campaign id", campaignID); err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, op, "/campaigns/"+url.PathEscape(campaignID)+"/blacklists", nil)
	return asObject(op, resp, err)
}

// GetNewsletters lists newsletters, filtered by campaign when campaignID is set.
func (c *Client) GetNewsletters(ctx context.Context, campaignID string) ([]Object, error) {
	const op = "get newsletters"
	var payload transport.Payload
	if campaignID != "" {
		payload = transport.Payload{"query[campaignId]": campaignID}
	}
	resp, err := c.call(ctx, op, "/newsletters", payload)
	return asList(op, resp, err)
}

// GetNewsletter returns a single newsletter.
func (c *Client) GetNewsletter(ctx context.Context, newsletterID string) (Object, error) {
	const op = "get newsletter"
	if err := requireParam(op, "newsletter id", newsletterID); err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, op, "/newsletters/"+url.PathEscape(newsletterID), nil)
	return asObject(op, resp, err)
}

func requireParam(op, name, value string) error {
	if value == "" {
		return fmt.Errorf("[getresponse %s] %w: %s is required", op, ErrMissingParameter, name)
	}
	return nil
}

func asObject(op string, resp any, err error) (Object, error) {
	if err != nil {
		return nil, err
	}
	obj, ok := resp.(map[string]any)
	if !ok {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("expected a JSON object, got %T", resp)}
	}
	return obj, nil
}

func asList(op string, resp any, err error) ([]Object, error) {
	if err != nil {
		return nil, err
	}
	items, ok := resp.([]any)
	if !ok {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("expected a JSON array, got %T", resp)}
	}
	list := make([]Object, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &TransportError{Op: op, Err: fmt.Errorf("element %d: expected a JSON object, got %T", i, item)}
		}
		list = append(list, obj)
	}
	return list, nil
}
