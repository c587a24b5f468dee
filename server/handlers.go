package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-getresponse/getresponse"
	"github.com/rs/zerolog/log"
)

// IndexHandler shows the connected account, or starts the consent flow when
// there is no usable token.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.client.TokenManager().AccessToken() == "" {
			http.Redirect(w, r, s.client.ConsentURL(), http.StatusFound)
			return
		}

		account, err := s.client.GetAccountInfo(r.Context())
		if err != nil {
			s.htmlError(w, r, err)
			return
		}
		campaigns, err := s.client.GetCampaigns(r.Context())
		if err != nil {
			s.htmlError(w, r, err)
			return
		}

		data := map[string]interface{}{
			"AppName":   s.config.GetAppName(),
			"Account":   account,
			"Campaigns": campaigns,
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := s.index.Execute(w, data); err != nil {
			log.Err(err).Msg("failed to render index")
		}
	}
}

func (s *Server) AccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account, err := s.client.GetAccountInfo(r.Context())
		s.writeResult(w, r, account, err)
	}
}

func (s *Server) CampaignsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaigns, err := s.client.GetCampaigns(r.Context())
		s.writeResult(w, r, campaigns, err)
	}
}

func (s *Server) CampaignHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		campaign, err := s.client.GetCampaign(r.Context(), r.PathValue("campaignId"))
		s.writeResult(w, r, campaign, err)
	}
}

// StatisticsHandler serves a campaign statistics report. The optional from,
// to, groupBy and fields query parameters are passed through.
func (s *Server) StatisticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		stats, err := s.client.GetCampaignStatistics(r.Context(),
			r.PathValue("campaignId"),
			getresponse.Metric(r.PathValue("metric")),
			getresponse.StatisticsOptions{
				GroupBy: getresponse.GroupBy(q.Get("groupBy")),
				From:    q.Get("from"),
				To:      q.Get("to"),
				Fields:  q.Get("fields"),
			})
		s.writeResult(w, r, stats, err)
	}
}

func (s *Server) NewsletterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		newsletter, err := s.client.GetNewsletter(r.Context(), r.PathValue("newsletterId"))
		s.writeResult(w, r, newsletter, err)
	}
}

// htmlError sends the user back through consent when the tokens can no longer
// be used, and reports any other failure.
func (s *Server) htmlError(w http.ResponseWriter, r *http.Request, err error) {
	logError(r.Method, r.URL.Path, err.Error())
	if errors.Is(err, getresponse.ErrRenewalUnavailable) || errors.Is(err, getresponse.ErrMissingToken) {
		http.Redirect(w, r, s.client.ConsentURL(), http.StatusFound)
		return
	}
	http.Error(w, http.StatusText(statusFor(err)), statusFor(err))
}

func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		logError(r.Method, r.URL.Path, err.Error())
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// statusFor maps client errors onto the status the demo host answers with.
func statusFor(err error) int {
	var vendorErr *getresponse.VendorError
	switch {
	case errors.Is(err, getresponse.ErrMissingParameter):
		return http.StatusBadRequest
	case errors.Is(err, getresponse.ErrRenewalUnavailable), errors.Is(err, getresponse.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.As(err, &vendorErr) && vendorErr.HTTPStatus == http.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
