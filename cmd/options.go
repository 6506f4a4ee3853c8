package main

// PatchOptions holds configuration for the update and backup commands
type PatchOptions struct {
	Dir       string
	DryRun    bool
	BackupExt string
	Validate  bool
	Strict    bool
	Only      string
}

// PlanOptions holds configuration for the plan command
type PlanOptions struct {
	Sets []string
}

// CheckOptions holds configuration for the check command
type CheckOptions struct {
	Sets []string
	Dir  string
	Only string
}
