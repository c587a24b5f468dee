package getresponsefake

// Object is a JSON object served by the fake.
type Object = map[string]any

// Dataset is the account content served by the resource endpoints.
type Dataset struct {
	Account     Object
	Campaigns   []Object
	Contacts    map[string][]Object // by campaignId
	Blacklists  map[string]Object   // by campaignId
	Newsletters []Object
	Statistics  map[string]any // by metric
}

func (d Dataset) campaign(id string) (Object, bool) {
	for _, c := range d.Campaigns {
		if c["campaignId"] == id {
			return c, true
		}
	}
	return nil, false
}

func newsletterCampaignID(newsletter Object) string {
	campaign, _ := newsletter["campaign"].(Object)
	id, _ := campaign["campaignId"].(string)
	return id
}

// DefaultDataset is a small account with two campaigns.
func DefaultDataset() Dataset {
	return Dataset{
		Account: Object{
			"accountId":   "Xy",
			"email":       "owner@example.com",
			"firstName":   "Ada",
			"lastName":    "Owner",
			"companyName": "Example Ltd",
			"countryCode": Object{"countryCode": "GB"},
			"timeZone":    Object{"name": "Europe/London", "offset": "+00:00"},
		},
		Campaigns: []Object{
			{"campaignId": "V", "name": "newsletter_list", "isDefault": "true", "createdOn": "2024-01-10T09:00:00+0000"},
			{"campaignId": "pF", "name": "webinar_list", "isDefault": "false", "createdOn": "2024-02-01T12:30:00+0000"},
		},
		Contacts: map[string][]Object{
			"V": {
				{"contactId": "pV3r", "name": "Jane Reader", "email": "jane@example.com", "origin": "api", "createdOn": "2024-03-01T10:00:00+0000"},
				{"contactId": "k9Qa", "name": "John Reader", "email": "john@example.com", "origin": "import", "createdOn": "2024-03-02T10:00:00+0000"},
			},
		},
		Blacklists: map[string]Object{
			"V": {"masks": []string{"*@spam.example", "bounce@example.com"}},
		},
		Newsletters: []Object{
			{"newsletterId": "N1", "name": "March digest", "subject": "What's new in March", "status": "sent", "campaign": Object{"campaignId": "V", "name": "newsletter_list"}},
			{"newsletterId": "N2", "name": "Webinar invite", "subject": "Join us live", "status": "sent", "campaign": Object{"campaignId": "pF", "name": "webinar_list"}},
		},
		Statistics: map[string]any{
			"list-size": Object{"V": Object{"2024-03-01": Object{"totalSubscribers": 120}, "2024-03-02": Object{"totalSubscribers": 122}}},
			"summary":   Object{"V": Object{"totalSubscribers": 122, "totalNewsletters": 4, "totalTriggers": 1, "totalLandingPages": 0, "totalWebforms": 2}},
		},
	}
}
