// Package step contains the workflow steps of the shopping assistant: memory
// load/update, intent routing, retrieval with vague-query rewriting, relevance
// evaluation with bounded retry, the FAQ branch and response rendering — plus
// the canonical graph wiring them together.
package step
