package models

// SubscriptionBlob is the persisted form of SubscriptionState.
type SubscriptionBlob struct {
	Tier         Tier                `json:"tier"`
	IsSubscribed bool                `json:"isSubscribed"`
	Usage        UsageStats          `json:"usageStats"`
	Trial        TrialStats          `json:"trialStats"`
	History      []DiagnosticSession `json:"history"`
}

// OutcomeBlob is the persisted form of OutcomeState.
type OutcomeBlob struct {
	PendingSubmissions  []RepairSubmission        `json:"pendingSubmissions"`
	PendingFollowUps    []PendingRepairSubmission `json:"pendingFollowUps"`
	MyRepairs           []RepairSubmission        `json:"myRepairs"`
	ContributionEnabled bool                      `json:"contributionEnabled"`
}

// SnapshotV2 is the versioned persistence envelope holding the three
// namespaced blobs. V1 files (no version field) unmarshal into this
// struct with Version zero, which the loader treats as the legacy format
// with the same blob shapes.
type SnapshotV2 struct {
	Version      int               `json:"version"`
	Subscription *SubscriptionBlob `json:"subscription"`
	RepairData   *OutcomeBlob      `json:"repairOutcome"`
	Settings     *Settings         `json:"settings"`
}

const SnapshotVersion = 2
