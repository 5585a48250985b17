// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language models inside shopflow.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Provide synchronous completion semantics matching the engine's
//     blocking-collaborator contract
//   - Offer structured (JSON) output decoding with schema-guided prompts
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so the workflow steps remain decoupled from vendor SDKs. The
// Classifier, Judge and Generator types adapt a Model to the collaborator
// interfaces declared in core.
package model
