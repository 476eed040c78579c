// Command examdeck serves the exam deck UI during development and renders
// filled-in pages without a browser.
package main

func main() {
	Execute()
}
