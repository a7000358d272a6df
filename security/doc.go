// Package security detects prompt-injection and SQL-injection patterns in
// free text before it reaches the LLM or the query engine.
//
// The scanner is fail-closed: any detected threat rejects the whole request.
// There is exactly one pattern table in this package; every scan site in the
// system (the client-side early exit and the authoritative trust-boundary
// check) calls Scan against it, so the two can never diverge.
package security
