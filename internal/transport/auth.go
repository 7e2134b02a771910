package transport

import "net/http"

// Authenticator attaches a provider credential to an outgoing request.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// QueryAuth sends the key as a query parameter: "api_key" for FoodData
// Central and "apiKey" for Spoonacular.
type QueryAuth struct {
	Param string
}

// Apply sets the parameter, keeping the rest of the query.
func (a *QueryAuth) Apply(req *http.Request, apiKey string) {
	if req.URL == nil {
		return
	}
	q := req.URL.Query()
	q.Set(a.Param, apiKey)
	req.URL.RawQuery = q.Encode()
}

// AppKeyAuth sends an application id and key as a header pair, the way
// Nutritionix expects them.
type AppKeyAuth struct {
	AppID     string
	IDHeader  string
	KeyHeader string
}

// Apply sets both headers.
func (a *AppKeyAuth) Apply(req *http.Request, apiKey string) {
	req.Header.Set(a.IDHeader, a.AppID)
	req.Header.Set(a.KeyHeader, apiKey)
}
