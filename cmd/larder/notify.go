package main

import (
	"fmt"

	"github.com/larder-dev/larder/internal/cli"
	"github.com/larder-dev/larder/internal/reconcile"
)

// terminalNotifier prints pipeline notifications to stdout, so one-shot
// commands surface the same low-stock warnings the dashboard shows as
// toasts.
type terminalNotifier struct{}

func (terminalNotifier) Notify(level reconcile.Level, message string) {
	switch level {
	case reconcile.LevelSuccess:
		fmt.Println(cli.SuccessStyle.Render(message))
	case reconcile.LevelWarning:
		fmt.Println(cli.WarningStyle.Render("⚠ " + message))
	case reconcile.LevelError:
		fmt.Println(cli.ErrorStyle.Render(message))
	default:
		fmt.Println(cli.InfoStyle.Render(message))
	}
}

func notifyToTerminal() reconcile.Option {
	return reconcile.WithNotifier(terminalNotifier{})
}
