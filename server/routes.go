package server

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex+"{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+s.config.GetCallbackPath(), ChainMiddleware(s.CallbackHandler(), s.HTMLMiddleWare()...))

	s.RegisterRouteHandler("GET "+RouteAPIAccount, ChainMiddleware(s.AccountHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPICampaigns, ChainMiddleware(s.CampaignsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPICampaign, ChainMiddleware(s.CampaignHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIStatistics, ChainMiddleware(s.StatisticsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPINewsletter, ChainMiddleware(s.NewsletterHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.Handler())
}

func logError(method, path, error string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	errorString := Red + error + ResetColor
	log.Error().Msgf("[%-19s] %s %s", displayMethod, path, errorString)
}
