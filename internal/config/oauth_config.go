package config

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetState() string
	IsStateGenerated() bool
	GetAPIBaseURL() string
	GetConsentURLTemplate() string
	GetCallbackPath() string
}

// OAuth holds the application's GetResponse credentials. ClientID and
// ClientSecret come from the GetResponse developer panel.
type OAuth struct {
	ClientID           string `envconfig:"CLIENT_ID"`
	ClientSecret       string `envconfig:"CLIENT_SECRET"`
	State              string `envconfig:"STATE"`
	APIBaseURL         string `envconfig:"API_BASE_URL" default:"https://api.getresponse.com/v3"`
	ConsentURLTemplate string `envconfig:"CONSENT_URL_TEMPLATE" default:"https://app.getresponse.com/oauth2_authorize.html?response_type=code&client_id={{clientId}}&state={{state}}"`
	CallbackPath       string `envconfig:"CALLBACK_PATH" default:"/callback"`

	stateGenerated bool
}

var _ OAuthConfig = OAuth{}

func (o OAuth) GetClientID() string {
	return o.ClientID
}

func (o OAuth) GetClientSecret() string {
	return o.ClientSecret
}

func (o OAuth) GetState() string {
	return o.State
}

// IsStateGenerated reports whether the state was made up for this process
// because GETRESPONSE_STATE was not set.
func (o OAuth) IsStateGenerated() bool {
	return o.stateGenerated
}

func (o OAuth) GetAPIBaseURL() string {
	return o.APIBaseURL
}

func (o OAuth) GetConsentURLTemplate() string {
	return o.ConsentURLTemplate
}

func (o OAuth) GetCallbackPath() string {
	if o.CallbackPath == "" {
		return "/callback"
	}
	return o.CallbackPath
}
