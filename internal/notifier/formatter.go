package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"StockAdvisor/internal/model"
)

// FormatTrainingReport renders a successful training run for the operator.
func FormatTrainingReport(r *model.TrainingReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ <b>Model trained</b> | %s\n\n", html.EscapeString(r.Symbol))
	fmt.Fprintf(&b, "Source: %s\n", html.EscapeString(r.Source))
	fmt.Fprintf(&b, "Rows: %d (train %d / test %d)\n", r.Rows, r.TrainRows, r.TestRows)
	fmt.Fprintf(&b, "Test accuracy: %.1f%%\n", r.TestAccuracy*100)
	fmt.Fprintf(&b, "P(up) for %s: %.1f%%\n", r.LatestBarTime.Format("2006-01-02"), r.LatestProbability*100)
	fmt.Fprintf(&b, "Took: %s", r.Duration.Round(time.Millisecond))
	return b.String()
}

// FormatTrainingFailure renders a failed training run. Symbol and error text
// are escaped for parse_mode HTML.
func FormatTrainingFailure(symbol string, err error) string {
	return fmt.Sprintf("❌ <b>Training failed</b> | %s\n\n%s\n\nServing the previous model, or the fallback probability if none is loaded.",
		html.EscapeString(symbol), html.EscapeString(err.Error()))
}

// FormatStatus renders the current model state.
func FormatStatus(symbol string, report *model.TrainingReport, p model.Prediction) string {
	symbol = html.EscapeString(symbol)
	if report == nil {
		return fmt.Sprintf("⚠️ <b>%s</b>: no trained model, serving fallback probability %.1f%%", symbol, p.Probability*100)
	}
	return fmt.Sprintf("📊 <b>%s</b>\n\nTrained: %s\nTest accuracy: %.1f%%\nP(up): %.1f%%",
		symbol, report.TrainedAt.Format("2006-01-02 15:04"), report.TestAccuracy*100, p.Probability*100)
}

// FormatHelp lists the operator commands.
func FormatHelp() string {
	return "Commands:\n• /status - current model\n• /retrain - retrain now"
}
