package domain

// ImportResult summarizes a bulk import of documents.
// Skipped counts entries whose dedup key was already registered; Failed
// carries one message per entry that could not be imported.
type ImportResult struct {
	Imported int
	Skipped  int
	Failed   []string
}
