// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

/*
Package notify delivers registration notifications to the group's inbox.

The primary channel is EmailJS, a transactional email relay addressed over
plain HTTP. When the relay is not configured (placeholder credentials) the
dispatcher runs in demo mode: it simulates a successful delivery after a
realistic delay so the registration flow stays fully demonstrable. When the
relay fails, a pre-filled mailto link is offered as a manual fallback.

Architecture:

  - Record: Normalized registration data with display placeholders.
  - Dispatcher: EmailJS client with demo mode and failure classification.
  - MailtoFallback: RFC 6068 link builder for manual delivery.
*/
package notify

import (
	"fmt"
	"strings"
	"time"
)

// # Registration Record

// Experience levels accepted on the registration form.
const (
	ExperienceBeginner     = "debutant"
	ExperienceAmateur      = "amateur"
	ExperienceIntermediate = "intermediaire"
	ExperienceAdvanced     = "avance"
)

// French display placeholders for optional fields left empty. The
// notification email is in French, like the registration form.
const (
	PlaceholderUnspecified    = "Non spécifiée"
	PlaceholderNoAvailability = "Aucune disponibilité spécifiée"
	PlaceholderNoMotivation   = "Aucune motivation spécifiée"
)

// emailSubject is the fixed subject line of the notification email.
const emailSubject = "Nouvelle inscription - Équipe de Danse Africaine"

// experienceLabels maps form codes to the human-readable French labels used
// in the notification email.
var experienceLabels = map[string]string{
	ExperienceBeginner:     "Débutant(e) - Jamais dansé",
	ExperienceAmateur:      "Amateur - Quelques cours",
	ExperienceIntermediate: "Intermédiaire - Plusieurs années",
	ExperienceAdvanced:     "Avancé(e) - Très expérimenté(e)",
}

// ExperienceLabel returns the display label for an experience code.
// Unknown or empty codes fall back to the unspecified placeholder.
func ExperienceLabel(code string) string {
	if label, known := experienceLabels[code]; known {
		return label
	}
	return PlaceholderUnspecified
}

// Record is a normalized registration ready for delivery.
type Record struct {
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	BirthDate    string
	Experience   string
	Availability []string
	Motivation   string
	SubmittedAt  time.Time
}

// AvailabilityText joins the selected days for display.
func (record Record) AvailabilityText() string {
	if len(record.Availability) == 0 {
		return PlaceholderNoAvailability
	}
	return strings.Join(record.Availability, ", ")
}

// orPlaceholder substitutes a display placeholder for an empty value.
func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}

// frenchMonths are the lowercase month names of the fr-FR locale.
var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// frenchDateTime renders a timestamp the way the fr-FR locale does,
// e.g. "14 mars 2026 à 18:30".
func frenchDateTime(t time.Time) string {
	return fmt.Sprintf("%d %s %d à %02d:%02d",
		t.Day(), frenchMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// templateParams projects the record onto the EmailJS template variables.
//
// Key names are contractual: they must match the variables referenced in the
// EmailJS template, which is written in French.
func (record Record) templateParams(recipient string) map[string]string {
	return map[string]string{
		"to_email":         recipient,
		"from_name":        record.FirstName + " " + record.LastName,
		"reply_to":         record.Email,
		"subject":          emailSubject,
		"prenom":           record.FirstName,
		"nom":              record.LastName,
		"telephone":        record.Phone,
		"date_naissance":   orPlaceholder(record.BirthDate, PlaceholderUnspecified),
		"experience_danse": ExperienceLabel(record.Experience),
		"disponibilite":    record.AvailabilityText(),
		"motivation":       orPlaceholder(record.Motivation, PlaceholderNoMotivation),
		"date_inscription": frenchDateTime(record.SubmittedAt),
	}
}
