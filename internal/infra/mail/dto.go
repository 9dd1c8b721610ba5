package mail

type NewLeadEmailData struct {
	Name      string
	Email     string
	LinkedIn  string
	Visas     string
	CreatedAt string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}
