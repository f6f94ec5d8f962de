package model

// UsageRecord counts requests per endpoint and method.
type UsageRecord struct {
	ID       int64  `json:"id"`
	Endpoint string `json:"endpoint"`
	Method   string `json:"method"`
	Requests int64  `json:"requests"`
}

// ResourcesResponse is the body of the admin resource listing.
type ResourcesResponse struct {
	Resources []UsageRecord `json:"resources"`
}

// APICallsResponse reports the live remaining quota.
type APICallsResponse struct {
	APICalls int `json:"apiCalls"`
}
