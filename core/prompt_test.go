package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemPromptCarriesCitationContract(t *testing.T) {
	prompt := SystemPrompt([]string{"sec.gov", "finra.org/rules-guidance/rulebooks"})

	// The example citation in the prompt must be the exact tag shape the
	// grounding serializer numbers sources with.
	assert.Contains(t, prompt, CiteTag(FirstCitationID))
	assert.Contains(t, prompt, "sec.gov and finra.org/rules-guidance/rulebooks")
	assert.Contains(t, prompt, "Do not include site:")
}

func TestSourceSerialization(t *testing.T) {
	block := SourceBlock(1, "https://example.com/a", "extracted text")
	assert.Equal(t, "<source id=\"1\" src=\"https://example.com/a\">\nextracted text\n</source>", block)

	envelope := SourcesEnvelope([]string{block, SourceBlock(2, "https://example.com/b", "more")})
	assert.Contains(t, envelope, `<source id="1"`)
	assert.Contains(t, envelope, `<source id="2"`)
	assert.True(t, len(envelope) > 0)
	assert.Equal(t, "<sources>", envelope[:9])
	assert.Equal(t, "</sources>", envelope[len(envelope)-10:])
}

func TestSourcesEnvelopeEmpty(t *testing.T) {
	assert.Equal(t, "<sources></sources>", SourcesEnvelope(nil))
}
