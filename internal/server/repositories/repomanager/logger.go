package repomanager

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/nodekeeper/internal/logging"
)

// gooseLogger adapts logging.Logger to goose's printf-style logger.
type gooseLogger struct {
	log logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}

// SetLogger routes migration output through log. goose keeps a single
// process-wide logger, so this applies to every manager. A nil log discards
// the output.
func SetLogger(log logging.Logger) {
	if log == nil {
		log = logging.Nop()
	}
	goose.SetLogger(gooseLogger{log: log})
}
