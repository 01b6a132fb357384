package models

// Requests for decision/analytics HTTP endpoints. Defined in domain so the
// handler and validation layers share one set of binding structs.

type AnalyzeRequest struct {
	Snapshot Snapshot      `json:"snapshot" validate:"required"`
	Context  MarketContext `json:"context" validate:"required"`
	Persist  bool          `json:"persist" default:"false"`
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Limit  int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=1000"`
	From   string `query:"from" json:"from"` // RFC3339 or unix seconds
	To     string `query:"to" json:"to"`
}

type BiasDistributionRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type TimelineRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	Days   int    `query:"days" json:"days" default:"30" validate:"gte=1,lte=365"`
}

type DriftRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	// Optional explicit pair; when empty the latest two entries are compared.
	PreviousTS string `query:"prev_ts" json:"prev_ts"`
	CurrentTS  string `query:"curr_ts" json:"curr_ts"`
}
