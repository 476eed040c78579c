//go:build js && wasm

package main

import "github.com/Its-donkey/examdeck/internal/ui/wasm"

func main() {
	wasm.RunApp()
}
