// Package repscan analyzes the reputational impact of a single web page.
// It fetches the page through a cascade of retrieval strategies, extracts
// the main article text, asks a language model for a POSITIVE, NEGATIVE or
// NEUTRAL classification and persists the result as a text file.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, openai/).
package repscan
