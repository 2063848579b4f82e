// Package endpoint executes compiled SPARQL text against a remote endpoint
// over the SPARQL 1.1 protocol and decodes SPARQL JSON results.
//
// Executors compose:
//
//	CachingExecutor{Next: Client, Cache: *store.Store}
//
// A CachingExecutor keys the cache by querysparql.Fingerprint(text) and
// endpoint URL, so identical text hits the cache across runs.
package endpoint
