package models

// Allocation assigns a test engineer to an activity on a trial.
type Allocation struct {
	ID                  string `json:"id"`
	TrialID             string `json:"trial_id"`
	System              string `json:"system"`
	TestEngineerName    string `json:"test_engineer_name"`
	Role                string `json:"role"`
	TrialCategory       string `json:"trial_category"`
	TrialCategoryType   string `json:"trial_category_type"`
	TherapeuticArea     string `json:"therapeutic_area"`
	TherapeuticAreaType string `json:"therapeutic_area_type"`
	Activity            string `json:"activity"`
	StartDate           string `json:"start_date"`
	EndDate             string `json:"end_date"`
	CreatedBy           string `json:"created_by"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
	UpdatedBy           string `json:"updated_by,omitempty"`
}

// UATRecord tracks one UAT round for a trial. Actual dates are nil until
// the round has actually started or completed.
type UATRecord struct {
	ID               string  `json:"id"`
	TrialID          string  `json:"trial_id"`
	UATRound         string  `json:"uat_round"`
	Category         string  `json:"category"`
	CategoryType     string  `json:"category_type"`
	PlannedStartDate string  `json:"planned_start_date"`
	PlannedEndDate   string  `json:"planned_end_date"`
	ActualStartDate  *string `json:"actual_start_date"`
	ActualEndDate    *string `json:"actual_end_date"`
	Status           string  `json:"status"`
	Result           string  `json:"result"`
	EmailBody        string  `json:"email_body,omitempty"`
	CreatedBy        string  `json:"created_by"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
	UpdatedBy        string  `json:"updated_by,omitempty"`
}

// AuditLog is a single append-only audit trail event.
type AuditLog struct {
	ID        string         `json:"id"`
	Timestamp string         `json:"timestamp"`
	User      string         `json:"user"`
	Action    string         `json:"action"`
	Module    string         `json:"module"`
	Details   string         `json:"details"`
	Metadata  map[string]any `json:"metadata"`
}

// QualityRecord is one testing round's quality snapshot for a trial.
// Requirement/failure totals are cumulative within the round, not deltas.
type QualityRecord struct {
	ID                string  `json:"id"`
	TrialID           string  `json:"trial_id"`
	Phase             string  `json:"phase"`
	NoOfUATPlans      int     `json:"no_of_uat_plans"`
	NoOfRounds        int     `json:"no_of_rounds"`
	TypeOfRequirement string  `json:"type_of_requirement"`
	CurrentRound      int     `json:"current_round"`
	TotalRequirements int     `json:"total_requirements"`
	TotalFailures     int     `json:"total_failures"`
	SpecIssue         int     `json:"spec_issue"`
	MockCRFIssue      int     `json:"mock_crf_issue"`
	ProgrammingIssue  int     `json:"programming_issue"`
	ScriptingIssue    int     `json:"scripting_issue"`
	DefectDensity     float64 `json:"defect_density"`
	Status            string  `json:"status"`
	CreatedBy         string  `json:"created_by"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
	UpdatedBy         string  `json:"updated_by,omitempty"`
}

// TrailDocument records a UAT deliverable filed in the TMF/Vault.
// TEDocument ("Yes"/"No") selects which approval dates are required:
// TE1+TE2 approval dates when Yes, CTDM approval date when No.
type TrailDocument struct {
	ID               string  `json:"id"`
	Trail            string  `json:"trail"`
	Category         string  `json:"category"`
	CRNumber         string  `json:"cr_number,omitempty"`
	TE1              string  `json:"te1"`
	TE2              string  `json:"te2"`
	DocumentName     string  `json:"document_name"`
	TEDocument       string  `json:"te_document"`
	UATRound         string  `json:"uat_round"`
	TMFVaultID       string  `json:"tmf_vault_id"`
	TE1ApprovalDate  *string `json:"te1_approval_date"`
	TE2ApprovalDate  *string `json:"te2_approval_date"`
	CTDMApprovalDate *string `json:"ctdm_approval_date"`
	GoLiveDate       string  `json:"go_live_date"`
	CreatedBy        string  `json:"created_by"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
	UpdatedBy        string  `json:"updated_by,omitempty"`
}

// ChangeRequest tracks a rule or form change against a trial.
type ChangeRequest struct {
	ID                   string `json:"id"`
	TrialName            string `json:"trial_name"`
	CRNo                 string `json:"cr_no"`
	Category             string `json:"category"`
	FormEventName        string `json:"form_event_name"`
	ItemRuleName         string `json:"item_rule_name"`
	Requirements         string `json:"requirements"`
	VersionChanges       string `json:"version_changes"`
	ProtocolAmendment    string `json:"protocol_amendment"`
	RetrospectiveCaseBok string `json:"retrospective_case_book"`
	CDBImpact            string `json:"cdb_impact"`
	ItemDefImpact        string `json:"item_def_impact"`
	DatacoreImpact       string `json:"datacore_impact"`
	Comments             string `json:"comments"`
	CurrentVersion       string `json:"current_version"`
	ImpactedE2BVsec      string `json:"impacted_e2b_vsec"`
	ImpactedRTSM         string `json:"impacted_rtsm"`
	RTSMComments         string `json:"rtsm_comments"`
	CreatedBy            string `json:"created_by"`
	CreatedAt            string `json:"created_at"`
	UpdatedAt            string `json:"updated_at"`
	UpdatedBy            string `json:"updated_by,omitempty"`
}

// User is an active portal account. The users collection is a JSON object
// keyed by username, so the struct does not carry the username itself.
type User struct {
	Password        string  `json:"password"`
	Email           string  `json:"email"`
	Role            string  `json:"role"`
	Status          string  `json:"status"`
	IsAuditReviewer bool    `json:"is_audit_reviewer,omitempty"`
	CreatedAt       string  `json:"created_at"`
	CreatedBy       string  `json:"created_by,omitempty"`
	ApprovedBy      string  `json:"approved_by,omitempty"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
	UpdatedBy       string  `json:"updated_by,omitempty"`
	PasswordResetAt *string `json:"password_reset_at,omitempty"`
	PasswordResetBy *string `json:"password_reset_by,omitempty"`
	LastLogin       *string `json:"last_login,omitempty"`
}

// PendingUser is a registration awaiting approval.
type PendingUser struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Email         string `json:"email"`
	RequestedRole string `json:"requested_role"`
	Status        string `json:"status"`
	RequestedAt   string `json:"requested_at"`
	Reason        string `json:"reason,omitempty"`
}

// PasswordResetRequest is a pending credential reset awaiting approval.
type PasswordResetRequest struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	NewPassword string  `json:"new_password"`
	Reason      string  `json:"reason"`
	Status      string  `json:"status"`
	RequestedAt string  `json:"requested_at"`
	ApprovedBy  *string `json:"approved_by"`
	ApprovedAt  *string `json:"approved_at"`
	RejectedBy  *string `json:"rejected_by"`
	RejectedAt  *string `json:"rejected_at"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}
