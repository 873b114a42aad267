package service

import (
	"fmt"
	"time"
)

// Item outcomes recorded in a BatchReport.
const (
	ItemOK      = "ok"
	ItemFailed  = "failed"
	ItemSkipped = "skipped"
)

// ItemResult is the outcome of processing one reminder or plant in a pass.
type ItemResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
	Err    error  `json:"-"`
}

// BatchReport collects per-item results of one job pass. A failed item never
// prevents its siblings from being processed.
type BatchReport struct {
	Job        string       `json:"job"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
	Items      []ItemResult `json:"items"`
	Err        error        `json:"-"`
}

func newReport(job string, now time.Time) *BatchReport {
	return &BatchReport{Job: job, StartedAt: now, Items: []ItemResult{}}
}

func (r *BatchReport) ok(id, detail string) {
	r.Items = append(r.Items, ItemResult{ID: id, Status: ItemOK, Detail: detail})
}

func (r *BatchReport) skip(id, detail string) {
	r.Items = append(r.Items, ItemResult{ID: id, Status: ItemSkipped, Detail: detail})
}

func (r *BatchReport) fail(id string, err error) {
	r.Items = append(r.Items, ItemResult{ID: id, Status: ItemFailed, Detail: err.Error(), Err: err})
}

// Count returns how many items ended with the given status.
func (r *BatchReport) Count(status string) int {
	n := 0
	for _, it := range r.Items {
		if it.Status == status {
			n++
		}
	}
	return n
}

// Error summarizes a pass-level failure or failed items; nil when all is well.
func (r *BatchReport) Error() error {
	if r.Err != nil {
		return r.Err
	}
	if n := r.Count(ItemFailed); n > 0 {
		return fmt.Errorf("%s: %d of %d items failed", r.Job, n, len(r.Items))
	}
	return nil
}
