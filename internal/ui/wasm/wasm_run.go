//go:build js && wasm

// Package wasm boots the exam deck controller inside the browser.
package wasm

import (
	"context"
	"strings"
	"syscall/js"

	"github.com/Its-donkey/examdeck/internal/ui/deck"
	"github.com/Its-donkey/examdeck/internal/ui/dom/jsdom"
	"github.com/Its-donkey/examdeck/internal/ui/exams"
	"github.com/Its-donkey/examdeck/logging"
)

// RunApp binds the controller to the host page and blocks forever.
//
// The page may tune the bundle through data attributes on <body>:
// data-api-base prefixes the endpoint paths and data-log-level sets verbosity.
func RunApp() {
	done := make(chan struct{})
	document := js.Global().Get("document")
	apiBase, logLevel := bodyData(document, "apiBase"), bodyData(document, "logLevel")

	logger := logging.New("examdeck-ui", logging.ParseLevel(logLevel))
	client := exams.NewClient(exams.Config{
		BaseURL: apiBase,
		Logger:  logger,
	})
	ctrl := deck.New(jsdom.New(), client,
		deck.WithLogger(logger),
		deck.WithRequestTimeout(exams.DefaultTimeout),
	)
	if err := ctrl.Start(context.Background()); err != nil {
		js.Global().Get("console").Call("error", "exam deck failed to start:", err.Error())
		return
	}
	<-done
}

func bodyData(document js.Value, key string) string {
	if !document.Truthy() {
		return ""
	}
	body := document.Get("body")
	if !body.Truthy() {
		return ""
	}
	value := body.Get("dataset").Get(key)
	if value.Type() != js.TypeString {
		return ""
	}
	return strings.TrimSpace(value.String())
}
