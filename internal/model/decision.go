package model

import "time"

// Action is the recommendation returned to the caller.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionHold Action = "HOLD"
)

// Decision is the output of the decision policy.
type Decision struct {
	Action       Action `json:"action"`
	InvestAmount int64  `json:"invest_amount"`
	Reply        string `json:"reply"`
}

// Prediction is the probability model's answer for the latest bar.
type Prediction struct {
	Probability float64
	Fallback    bool // true when no trained model was available
}

// TrainingReport summarises one training run.
type TrainingReport struct {
	Symbol            string
	Source            string
	Rows              int
	TrainRows         int
	TestRows          int
	TestAccuracy      float64
	LatestProbability float64
	LatestBarTime     time.Time
	Duration          time.Duration
	TrainedAt         time.Time
}
