package server

// Route path constants
const (
	RouteIndex   = "/"
	RouteMetrics = "/metrics"

	// API Routes
	RouteAPIAccount    = "/api/account"
	RouteAPICampaigns  = "/api/campaigns"
	RouteAPICampaign   = "/api/campaigns/{campaignId}"
	RouteAPIStatistics = "/api/campaigns/{campaignId}/statistics/{metric}"
	RouteAPINewsletter = "/api/newsletters/{newsletterId}"
)
