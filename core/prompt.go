package core

import (
	"fmt"
	"strings"
)

// FirstCitationID is where grounding sources start numbering. The system
// prompt and the source serializer both derive their id literals from here so
// the citation format the model is told about can never drift from the format
// the grounding tool actually emits.
const FirstCitationID = 1

// CiteTag renders the citation marker the assistant is instructed to place
// next to grounded claims, e.g. <cite id="1"/>.
func CiteTag(id int) string {
	return fmt.Sprintf(`<cite id="%d"/>`, id)
}

// SourceBlock renders one grounded source as a tagged block carrying its
// citation id, source URL and extracted text.
func SourceBlock(id int, src, text string) string {
	return fmt.Sprintf("<source id=\"%d\" src=%q>\n%s\n</source>", id, src, text)
}

// SourcesEnvelope wraps rendered source blocks into the single string payload
// returned to the model as a tool result. An empty block list yields an
// explicitly empty envelope rather than an error, so the model can state that
// no external context was found instead of fabricating one.
func SourcesEnvelope(blocks []string) string {
	return "<sources>" + strings.Join(blocks, "\n") + "</sources>"
}

// SystemPrompt renders the pinned system instruction for the financial advice
// agent. It names the grounded sites, ties the citation format to CiteTag and
// forbids the model from embedding site restrictions itself (the grounding
// adapter appends those).
func SystemPrompt(sites []string) string {
	return fmt.Sprintf(
		"You are a financial advice agent. You have access to %s for regulatory "+
			"information. If you don't know the answer to a user's question, use the "+
			"search tool that will perform a search on these websites. Always cite "+
			"your answers using the id provided in sources, for example %s. The "+
			"answers must be tailored to US customers. Do not include site: in your "+
			"search query.",
		strings.Join(sites, " and "),
		CiteTag(FirstCitationID),
	)
}
