// Package model defines the minimal completion interface the chat
// orchestrator drives, together with the tool declaration types presented to
// model backends. Concrete providers live in the openai and anthropic
// subpackages; MockModel provides scripted responses for tests.
package model
