package yahoo

import "encoding/json"

// chartResponse is the v8 chart API envelope.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// chartResult keeps Meta raw: the engine treats provider metadata as an
// opaque payload, only the handful of fields in chartMeta are decoded.
type chartResult struct {
	Meta       json.RawMessage `json:"meta"`
	Timestamps []int64         `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartMeta struct {
	Symbol             string  `json:"symbol"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
}

// chartQuote carries parallel arrays aligned with Timestamps. Entries may be
// null when the provider has no value for a bucket.
type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}
