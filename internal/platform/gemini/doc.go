// Package gemini implements the interpret.NarrativeGenerator interface
// using Google's Gemini API. It abstracts the details of the LLM
// integration, allowing the engine to request reading narratives without
// coupling to a specific external service.
package gemini
