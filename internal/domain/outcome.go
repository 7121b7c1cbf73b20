package domain

// FetchOutcome is the per-retailer result of one collection pass. Failures
// stay attached to their retailer instead of aborting the run, so tests and
// logs can count them.
type FetchOutcome struct {
	Retailer string
	Records  []ProductRecord
	// Dropped counts raw items excluded for data-quality reasons
	// (missing title, unparseable price). Filter rejections are not
	// counted; those items are simply out of scope.
	Dropped int
	Err     error
}
