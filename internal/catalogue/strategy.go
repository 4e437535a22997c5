package catalogue

import (
	"net/url"

	"github.com/go-resty/resty/v2"
)

// searchStrategy is one way of submitting the search form. The catalogue does
// not answer GET and POST consistently, so strategies are tried in order until
// one of them returns a page with results on it.
type searchStrategy struct {
	name string
	// queryInURL is set when the params travel in the url rather than the body.
	queryInURL bool
	send func(req *resty.Request, endpoint string, params url.Values) (*resty.Response, error)
}

var strategyGet = searchStrategy{
	name:       "GET",
	queryInURL: true,
	send: func(req *resty.Request, endpoint string, params url.Values) (*resty.Response, error) {
		return req.SetQueryParamsFromValues(params).Get(endpoint)
	},
}

var strategyPostForm = searchStrategy{
	name: "POST",
	send: func(req *resty.Request, endpoint string, params url.Values) (*resty.Response, error) {
		return req.SetFormDataFromValues(params).Post(endpoint)
	},
}

// requestURL is the url the strategy sends its request to.
func (s searchStrategy) requestURL(base *url.URL, params url.Values) string {
	if s.queryInURL {
		return searchURL(base, params)
	}
	return base.String()
}

var defaultStrategies = []searchStrategy{strategyGet, strategyPostForm}
