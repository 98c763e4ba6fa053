package usecase

type SubmitLeadInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company,omitempty"`
	Message string `json:"message,omitempty"`
}

type SubmitLeadOutput struct {
	LeadID        string `json:"leadId"`
	AddedToSheets bool   `json:"addedToSheets"`
	Message       string `json:"message"`
}

type SyncOutput struct {
	Synced int      `json:"synced"`
	Total  int      `json:"total"`
	Errors []string `json:"errors,omitempty"`
}
