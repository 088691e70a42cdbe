package mail

type LeadAssignedEmailData struct {
	AgentName string
	LeadName  string
	Company   string
}

type StatusChangedEmailData struct {
	AgentName string
	LeadName  string
	Status    string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
