package alerting

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Notifier delivers an alert somewhere a human will see it.
type Notifier interface {
	Notify(ctx context.Context, alert Alert) error
}

// ConsoleNotifier prints alert notices to a terminal stream.
type ConsoleNotifier struct {
	out    io.Writer
	now    func() time.Time
	logger zerolog.Logger
}

// NewConsoleNotifier builds a notifier writing to out.
func NewConsoleNotifier(out io.Writer, logger zerolog.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{
		out:    out,
		now:    time.Now,
		logger: logger.With().Str("component", "alert_console").Logger(),
	}
}

// Notify writes the formatted alert block.
func (n *ConsoleNotifier) Notify(_ context.Context, alert Alert) error {
	if _, err := io.WriteString(n.out, renderMessage(alert, n.now())); err != nil {
		return fmt.Errorf("write alert: %w", err)
	}

	n.logger.Debug().Str("kind", string(alert.Kind)).
		Str("severity", string(alert.Severity)).
		Float64("value", alert.Value).
		Msg("alert emitted")
	return nil
}

func renderMessage(alert Alert, at time.Time) string {
	icon := "⚠️"
	if alert.Severity == SeverityCritical {
		icon = "🔴"
	}

	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("\n%s ALERT [%s]\n", icon, at.Format(time.DateTime)))
	builder.WriteString(fmt.Sprintf("Type: %s\n", alert.Kind))
	builder.WriteString(fmt.Sprintf("Message: %s\n", alert.Message))
	builder.WriteString(fmt.Sprintf("Severity: %s\n", alert.Severity))
	builder.WriteString(strings.Repeat("-", 50) + "\n")
	return builder.String()
}

var _ Notifier = (*ConsoleNotifier)(nil)
