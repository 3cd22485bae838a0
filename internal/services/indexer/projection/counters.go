package projection

import (
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/domain"
	"github.com/louisbranch/cleanmate.space/internal/services/indexer/storage"
)

// statsBucket is the streak stats counter a submission status is counted in.
// REWARDED submissions stay in the approved bucket.
type statsBucket int

const (
	bucketNone statsBucket = iota
	bucketPending
	bucketApproved
	bucketRejected
)

func bucketOf(status domain.SubmissionStatus) statsBucket {
	switch status {
	case domain.SubmissionPending:
		return bucketPending
	case domain.SubmissionApproved, domain.SubmissionRewarded:
		return bucketApproved
	case domain.SubmissionRejected:
		return bucketRejected
	default:
		return bucketNone
	}
}

// moveSubmission recounts one submission moving from one bucket to another.
// A submission leaving an empty bucket is counted as newly seen so that
// Approved + Rejected + Pending stays equal to Total. amount is added to the
// approved total when the submission enters the approved bucket.
func moveSubmission(stats *storage.StreakStatsRecord, from, to statsBucket, amount domain.BigUint) {
	if from == to || to == bucketNone {
		return
	}
	if from == bucketNone || !decrement(counterFor(stats, from)) {
		stats.Total++
	}
	*counterFor(stats, to)++
	if to == bucketApproved {
		stats.TotalAmount = stats.TotalAmount.Add(amount)
	}
}

func counterFor(stats *storage.StreakStatsRecord, bucket statsBucket) *uint64 {
	switch bucket {
	case bucketPending:
		return &stats.Pending
	case bucketApproved:
		return &stats.Approved
	case bucketRejected:
		return &stats.Rejected
	default:
		return nil
	}
}

// decrement lowers a saturating counter. It reports false when the counter
// was already zero.
func decrement(counter *uint64) bool {
	if counter == nil || *counter == 0 {
		return false
	}
	*counter--
	return true
}
