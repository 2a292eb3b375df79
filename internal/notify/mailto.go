// Copyright (c) 2026 Djembe. All rights reserved.
// Author: contact@djembe.app

package notify

import (
	"fmt"
	"net/url"
	"strings"
)

/*
MailtoFallback builds a pre-filled mailto link for manual delivery.

Description: Used when the relay fails: the client opens the member's own
mail program with the recipient, subject, and a plain-text body already
filled in, so no registration is ever lost to an outage.

Parameters:
  - recipient: string (the group's inbox address)
  - record: Record

Returns:
  - string: An RFC 6068 mailto URL
*/
func MailtoFallback(recipient string, record Record) string {
	var body strings.Builder
	body.WriteString("NOUVELLE INSCRIPTION - ÉQUIPE DE DANSE AFRICAINE\n\n")
	body.WriteString("INFORMATIONS PERSONNELLES:\n")
	fmt.Fprintf(&body, "- Nom: %s\n", record.LastName)
	fmt.Fprintf(&body, "- Prénom: %s\n", record.FirstName)
	fmt.Fprintf(&body, "- Email: %s\n", record.Email)
	fmt.Fprintf(&body, "- Téléphone: %s\n", record.Phone)
	fmt.Fprintf(&body, "- Date de naissance: %s\n\n", orPlaceholder(record.BirthDate, PlaceholderUnspecified))
	body.WriteString("INFORMATIONS DANSE:\n")
	fmt.Fprintf(&body, "- Expérience: %s\n", ExperienceLabel(record.Experience))
	fmt.Fprintf(&body, "- Disponibilités: %s\n\n", record.AvailabilityText())
	body.WriteString("MOTIVATION:\n")
	fmt.Fprintf(&body, "%s\n\n", orPlaceholder(record.Motivation, PlaceholderNoMotivation))
	fmt.Fprintf(&body, "Date: %s\n\n", frenchDateTime(record.SubmittedAt))
	body.WriteString("Cette inscription a été soumise via le formulaire en ligne.\n")

	values := url.Values{}
	values.Set("subject", emailSubject)
	values.Set("body", body.String())

	// url.Values encodes spaces as '+', which mail programs do not decode
	// inside mailto links; percent-encoding is required.
	query := strings.ReplaceAll(values.Encode(), "+", "%20")

	return "mailto:" + recipient + "?" + query
}
