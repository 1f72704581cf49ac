package people

import (
	"time"

	"github.com/dmitrijs2005/mentormatch/internal/models"
)

var testFolders = map[models.Role]string{
	models.RoleMentor: "mentors",
	models.RoleMentee: "mentees",
}

func mentorRec(given, surname, email string, load int) models.Record {
	return models.Record{
		Role:           models.RoleMentor,
		GivenName:      given,
		Surname:        surname,
		Email:          email,
		Languages:      []string{"English", "Français"},
		Country:        "France",
		City:           "Lyon",
		University:     "INSA",
		HelpingAtEvent: true,
		MenteeCount:    load,
		SubmittedAt:    time.Date(2019, 8, 1, 10, 30, 0, 0, time.UTC),
	}
}

func menteeRec(given, surname, email string) models.Record {
	return models.Record{
		Role:        models.RoleMentee,
		GivenName:   given,
		Surname:     surname,
		Email:       email,
		Languages:   []string{"English"},
		Country:     "France",
		City:        "Paris",
		SubmittedAt: time.Date(2019, 8, 2, 9, 0, 0, 0, time.UTC),
	}
}
