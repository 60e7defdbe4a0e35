package strategy

import (
	"github.com/shopspring/decimal"

	"StockAdvisor/internal/model"
)

// Policy maps a probability of rise to a BUY/HOLD decision for one request.
// It holds no mutable state after construction and is safe for concurrent use.
type Policy struct {
	capital   int64
	risk      RiskProfile
	asset     AssetClass
	formatter Formatter
}

// Option configures a Policy.
type Option func(*Policy)

// WithFormatter replaces the default TextFormatter.
func WithFormatter(f Formatter) Option {
	return func(p *Policy) {
		if f != nil {
			p.formatter = f
		}
	}
}

// NewPolicy builds a policy for the given capital and free-form risk/asset
// strings. Unknown risk becomes medium and unknown asset becomes general.
func NewPolicy(capital int64, risk, asset string, opts ...Option) *Policy {
	p := &Policy{
		capital:   capital,
		risk:      ParseRisk(risk),
		asset:     ParseAsset(asset),
		formatter: TextFormatter{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Policy) Risk() RiskProfile  { return p.risk }
func (p *Policy) Asset() AssetClass  { return p.asset }
func (p *Policy) Threshold() float64 { return thresholdFor(p.risk) }

// Decide returns HOLD when probUp is strictly below the risk threshold and BUY
// otherwise. probUp is trusted to be in [0, 1]. livePrice only feeds the reply.
func (p *Policy) Decide(probUp float64, livePrice *float64) model.Decision {
	fields := ReplyFields{
		Probability: probUp,
		Risk:        p.risk,
		LivePrice:   livePrice,
		AssetNote:   p.asset.Note(),
	}

	if probUp < thresholdFor(p.risk) {
		return model.Decision{
			Action:       model.ActionHold,
			InvestAmount: 0,
			Reply:        p.formatter.Hold(fields),
		}
	}

	fields.Amount = p.investAmount()
	return model.Decision{
		Action:       model.ActionBuy,
		InvestAmount: fields.Amount,
		Reply:        p.formatter.Buy(fields),
	}
}

// investAmount truncates capital x allocation, never rounding up.
func (p *Policy) investAmount() int64 {
	amount := decimal.NewFromInt(p.capital).Mul(allocationFor(p.risk)).Floor().IntPart()
	if amount < 0 {
		return 0
	}
	return amount
}
