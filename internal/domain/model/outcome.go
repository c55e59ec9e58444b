package model

// Provider call statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusTimeout = "timeout"
)

// ProviderOutcome records how one provider call went.
type ProviderOutcome struct {
	Provider   string `json:"provider"`
	Status     string `json:"status"`
	OfferCount int    `json:"offerCount"`
	DurationMS int64  `json:"durationMs"`
	Error      string `json:"error,omitempty"`
}

// OK reports whether the call succeeded.
func (o ProviderOutcome) OK() bool { return o.Status == StatusSuccess }
