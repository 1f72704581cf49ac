// Package notify turns the outcome of a run into messages.
//
// Templates are text/template files read from a folder. A template may
// define a "subject" block; everything else is the message body:
//
//	{{define "subject"}}Your mentor for the semester{{end}}
//	Hello {{.Recipient.GivenName}},
//	...
//
// Mentee templates receive MenteeData, mentor templates MentorData. The
// Notifier renders every message, writes them to one text artifact and can
// hand them to a Mailer.
package notify
