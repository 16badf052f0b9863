package validation

// Enum values read verbatim by the UI; matching is case-sensitive exact.
var (
	ValidUATStatuses = []string{"Not Started", "In Progress", "Completed", "On Hold", "Cancelled"}
	ValidUATResults  = []string{"Pending", "Pass", "Fail", "Partial Pass"}

	ValidCategoryTypes = []string{"Build", "Change Request"}

	ValidSystems = []string{"INFORM", "VEEVA", "eCOA", "ePID", "CGM", "Others"}

	ValidTherapeuticAreas = []string{
		"Diabetic",
		"Obesity",
		"CKAD (Chronic Kidney Allograft Dysfunction)",
		"CagriSema & OLD-D",
		"Phase 1 & NIS",
		"Rare Disease",
		"Others",
	}

	ValidTrialCategories = []string{
		"Build",
		"Change Request - 01",
		"Change Request - 02",
		"Change Request - 03",
	}

	ValidAllocationRoles = []string{"TE1", "TE2", "TE3", "Lead", "Scripting", "UATR1", "UATR2"}

	ValidRequirementTypes = []string{"Forms", "Editchecks"}

	ValidCRCategories = []string{"Rule Change", "Form Change"}

	ValidTEDocument = []string{"Yes", "No"}

	ValidRoles = []string{"superuser", "manager", "admin", "user"}
)
