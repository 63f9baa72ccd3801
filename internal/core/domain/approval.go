package domain

// ApprovalQueue names an admin approval queue. Queue contents belong to the
// course, result and payment subsystems; this service only gates access.
type ApprovalQueue string

const (
	QueueCourses  ApprovalQueue = "courses"
	QueueResults  ApprovalQueue = "results"
	QueuePayments ApprovalQueue = "payments"
)

// ParseApprovalQueue validates a queue name from a request path.
func ParseApprovalQueue(s string) (ApprovalQueue, error) {
	switch q := ApprovalQueue(s); q {
	case QueueCourses, QueueResults, QueuePayments:
		return q, nil
	}
	return "", ErrApprovalQueueNotFound
}
