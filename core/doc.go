// Package core defines the shared conversational data model (messages, roles,
// tool calls) and the citation contract that keeps the system prompt and the
// grounding serializer in lockstep. It has no dependencies on model providers
// or transports so every other package can import it freely.
package core
