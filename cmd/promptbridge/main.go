// Command promptbridge is a thin driver over the translation and execution
// library: it loads a PromptSpec and a ProviderSpec, runs a translation or a
// full execution, and renders the result. Loading/merging config files,
// schema $ref resolution, and the shipped provider spec files themselves
// are out of this core's scope.
package main

func main() {
	Execute()
}
