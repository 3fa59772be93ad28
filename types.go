package folio

import "time"

// TagCount is a tag and the number of posts carrying it.
type TagCount struct {
	Tag   string
	Count int
}

// ContactMessage is one submission of the contact form.
type ContactMessage struct {
	ID       string
	Name     string
	Email    string
	Body     string
	IP       string
	Received time.Time
}
