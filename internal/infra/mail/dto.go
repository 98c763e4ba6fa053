package mail

import "time"

type NewLeadEmailData struct {
	LeadID      string
	Name        string
	Email       string
	Phone       string
	Company     string
	Message     string
	SubmittedAt time.Time
	InSheets    bool
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
}
