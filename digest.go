// Package digest normalizes content from code hosts, short-video platforms,
// professional network posts, microblogs and video platforms into a single
// record suitable for summarization by a language model.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, gemini/, sqlite/).
package digest
