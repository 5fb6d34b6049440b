package importjob

type CreatedEvent struct {
	Job Snapshot
}

type CompletedEvent struct {
	Job Snapshot
}

type FailedEvent struct {
	Job Snapshot
}
