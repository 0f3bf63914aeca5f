package handlers

// User-facing strings. Every backend failure in a view collapses to one of
// these; 4xx and 5xx are not told apart.
const (
	msgLoginFailed          = "Login failed. Please check your credentials."
	msgPasswordMismatch     = "Passwords do not match."
	msgInvalidUCID          = "Job seekers must enter a numeric UCID."
	msgRegistered           = "Registration successful! Please wait for admin approval if you're a job seeker."
	msgRegisterFailed       = "Registration failed. Please try again."
	msgBrowseFailed         = "Error fetching jobs"
	msgManageFailed         = "Error fetching jobs."
	msgJobAdded             = "Job added successfully."
	msgJobAddFailed         = "Failed to add job. Are you sure you're logged in as a recruiter?"
	msgJobDeleted           = "Job deleted successfully."
	msgJobDeleteFailed      = "Failed to delete job."
	msgAssistFilled         = "Form prefilled from the pasted posting. Review it before adding."
	msgAssistFailed         = "Could not read a posting from that text."
	msgAccountLoadFailed    = "Failed to load account details."
	msgAccountUpdated       = "Account updated successfully."
	msgAccountUpdateFailed  = "Failed to update account."
	msgNotPDF               = "Only PDF files can be uploaded."
	msgApplicationsFailed   = "Failed to load applications."
	msgApproved             = "Approval email sent to job seeker."
	msgRejected             = "Rejection email sent to job seeker."
	msgDecisionFailed       = "Failed to process application."
	msgApplyFormLoadFailed  = "Failed to load form data."
	msgApplicationSubmitted = "Application submitted successfully!"
	msgApplyFailed          = "Application failed. Please try again."
)
