package vellum

import "github.com/tidwall/gjson"

// Payload shapes tried by ExtractText, in order. First non-empty match wins.
var extractPaths = []string{
	"choices.0.delta.content",           // incremental chat-completion chunk
	"choices.0.text",                    // legacy completion shape
	"candidates.0.content.parts.0.text", // Gemini full-object shape
}

// ExtractText pulls the incremental text out of one decoded vendor payload,
// tolerating the JSON shapes the supported vendors emit. It is a pure
// function; a payload matching none of the shapes is not an error, the
// caller simply skips emission.
func ExtractText(payload []byte) (string, bool) {
	for _, path := range extractPaths {
		v := gjson.GetBytes(payload, path)
		if v.Exists() {
			if s := v.String(); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// ExtractCandidateTexts returns every non-empty candidates[].content.parts[].text
// in a Gemini payload, in document order. A single streamed object can carry
// several parts and therefore yield several deltas.
func ExtractCandidateTexts(payload []byte) []string {
	var texts []string
	gjson.GetBytes(payload, "candidates").ForEach(func(_, cand gjson.Result) bool {
		cand.Get("content.parts").ForEach(func(_, part gjson.Result) bool {
			if t := part.Get("text").String(); t != "" {
				texts = append(texts, t)
			}
			return true
		})
		return true
	})
	return texts
}
